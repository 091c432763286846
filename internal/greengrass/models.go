package greengrass

import (
	"encoding/json"
	"strings"
)

// Response is the discovery document returned by the Greengrass discovery API.
// Field names follow the AWS response schema.
type Response struct {
	GGGroups []Group `json:"GGGroups"`
}

// Group is a single Greengrass group the thing belongs to
type Group struct {
	GGGroupID string   `json:"GGGroupId,omitempty"`
	Cores     []Core   `json:"Cores"`
	CAs       []string `json:"CAs"`
}

// Core is a Greengrass Core device within a group
type Core struct {
	ThingArn     string         `json:"thingArn,omitempty"`
	Connectivity []Connectivity `json:"Connectivity"`
}

// Connectivity is one address a Core can be reached on
type Connectivity struct {
	ID          string `json:"Id,omitempty"`
	HostAddress string `json:"HostAddress"`
	PortNumber  int    `json:"PortNumber"`
	Metadata    string `json:"Metadata,omitempty"`
}

// DiscoveryInfo wraps a discovery response and exposes the Core CA and
// connectivity when the response is unambiguous.
//
// Ambiguity is decided once in NewDiscoveryInfo; the accessors only consult
// the stored flags.
type DiscoveryInfo struct {
	raw                *Response
	singleCA           bool
	singleConnectivity bool
}

// NewDiscoveryInfo builds a DiscoveryInfo from a decoded response.
// It never fails: an empty or nil response simply yields an info whose
// accessors report ErrAmbiguousDiscovery.
func NewDiscoveryInfo(raw *Response) *DiscoveryInfo {
	if raw == nil {
		raw = &Response{}
	}

	info := &DiscoveryInfo{raw: raw}

	if len(raw.GGGroups) == 1 {
		group := raw.GGGroups[0]

		if len(group.Cores) == 1 && len(group.Cores[0].Connectivity) == 1 {
			info.singleConnectivity = true
		}

		if len(group.CAs) == 1 {
			info.singleCA = true
		}
	}

	return info
}

// ParseDiscoveryInfo decodes a JSON discovery document.
// Decode errors are returned as produced by encoding/json.
func ParseDiscoveryInfo(data []byte) (*DiscoveryInfo, error) {
	var raw Response
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return NewDiscoveryInfo(&raw), nil
}

// Raw returns the underlying discovery response.
// Callers must treat it as read-only.
func (d *DiscoveryInfo) Raw() *Response {
	return d.raw
}

// HasSingleCA reports whether CA will succeed
func (d *DiscoveryInfo) HasSingleCA() bool {
	return d.singleCA
}

// HasSingleConnectivity reports whether Connectivity will succeed
func (d *DiscoveryInfo) HasSingleConnectivity() bool {
	return d.singleConnectivity
}

// CA returns the group CA certificate with escaped newlines expanded and a
// trailing NUL byte appended, the form expected by embedded TLS stacks that
// take C strings.
func (d *DiscoveryInfo) CA() ([]byte, error) {
	pemData, err := d.caPEM("CA")
	if err != nil {
		return nil, err
	}
	return append(pemData, 0x00), nil
}

// CAPEM returns the group CA certificate with escaped newlines expanded,
// without the trailing NUL byte.
func (d *DiscoveryInfo) CAPEM() ([]byte, error) {
	return d.caPEM("CAPEM")
}

func (d *DiscoveryInfo) caPEM(accessor string) ([]byte, error) {
	if !d.singleCA {
		return nil, d.ambiguity(accessor)
	}
	ca := strings.ReplaceAll(d.raw.GGGroups[0].CAs[0], `\n`, "\n")
	return []byte(ca), nil
}

// Connectivity returns the address and port of the only Core connectivity
// entry. Multiple candidates are never resolved automatically.
func (d *DiscoveryInfo) Connectivity() (string, int, error) {
	if !d.singleConnectivity {
		return "", 0, d.ambiguity("Connectivity")
	}
	c := d.raw.GGGroups[0].Cores[0].Connectivity[0]
	return c.HostAddress, c.PortNumber, nil
}

// ambiguity describes the response shape for error reporting
func (d *DiscoveryInfo) ambiguity(accessor string) *DiscoveryInfoError {
	e := &DiscoveryInfoError{
		Accessor: accessor,
		Groups:   len(d.raw.GGGroups),
	}
	for _, g := range d.raw.GGGroups {
		e.CAs += len(g.CAs)
		e.Cores += len(g.Cores)
		for _, c := range g.Cores {
			e.Connectivity += len(c.Connectivity)
		}
	}
	return e
}
