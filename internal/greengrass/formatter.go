package greengrass

import (
	"fmt"
	"strings"
)

// Summary returns a one-line summary of the discovery result
func (d *DiscoveryInfo) Summary() string {
	host, port, err := d.Connectivity()
	if err != nil {
		return fmt.Sprintf("Greengrass discovery: %d group(s), ambiguous core", len(d.raw.GGGroups))
	}
	return fmt.Sprintf("Greengrass core @ %s:%d", host, port)
}

// FormatCompact returns a compact multi-line format suitable for terminal display
func (d *DiscoveryInfo) FormatCompact() string {
	var b strings.Builder

	if host, port, err := d.Connectivity(); err == nil {
		b.WriteString(fmt.Sprintf("Core:   %s:%d\n", host, port))
	} else {
		b.WriteString("Core:   (ambiguous)\n")
	}

	if ca, err := d.CAPEM(); err == nil {
		b.WriteString(fmt.Sprintf("CA:     %d bytes PEM\n", len(ca)))
	} else {
		b.WriteString("CA:     (ambiguous)\n")
	}

	b.WriteString(fmt.Sprintf("Groups: %d\n", len(d.raw.GGGroups)))

	return b.String()
}

// FormatDetailed lists every group, core and connectivity entry
func (d *DiscoveryInfo) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Greengrass Discovery ===\n")
	b.WriteString(fmt.Sprintf("Groups:              %d\n", len(d.raw.GGGroups)))
	b.WriteString(fmt.Sprintf("Single CA:           %v\n", d.singleCA))
	b.WriteString(fmt.Sprintf("Single Connectivity: %v\n", d.singleConnectivity))

	for gi, group := range d.raw.GGGroups {
		b.WriteString("\n")
		name := group.GGGroupID
		if name == "" {
			name = "(unnamed)"
		}
		b.WriteString(fmt.Sprintf("=== Group %d: %s ===\n", gi+1, name))
		b.WriteString(fmt.Sprintf("CAs: %d\n", len(group.CAs)))

		for ci, core := range group.Cores {
			arn := core.ThingArn
			if arn == "" {
				arn = "(no thing ARN)"
			}
			b.WriteString(fmt.Sprintf("Core %d: %s\n", ci+1, arn))
			if len(core.Connectivity) == 0 {
				b.WriteString("  (no connectivity)\n")
			}
			for _, c := range core.Connectivity {
				line := fmt.Sprintf("  - %s:%d", c.HostAddress, c.PortNumber)
				if c.ID != "" {
					line += fmt.Sprintf(" [%s]", c.ID)
				}
				if c.Metadata != "" {
					line += " " + c.Metadata
				}
				b.WriteString(line + "\n")
			}
		}
	}

	return b.String()
}
