package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/ggdiscover/internal/config"
	"github.com/muurk/ggdiscover/internal/greengrass"
	"github.com/muurk/ggdiscover/internal/ui"
)

// Connection flags shared by every discovery command
var (
	endpoint     string
	thingName    string
	certFile     string
	keyFile      string
	caFile       string
	port         int
	timeoutSecs  int
	profileName  string
	configPath   string
	logLevel     string
	outputFormat string
)

// ca command flags
var (
	caOut     string
	caWithNUL bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&endpoint, "endpoint", "", "IoT data endpoint hostname")
	flags.StringVar(&thingName, "thing", "", "IoT thing name")
	flags.StringVar(&certFile, "cert", "", "Client certificate (PEM)")
	flags.StringVar(&keyFile, "key", "", "Client private key (PEM)")
	flags.StringVar(&caFile, "ca", "", "Root CA for the discovery endpoint (PEM, default: bundled Amazon Root CA 1)")
	flags.IntVar(&port, "port", 0, "Discovery port (default 8443)")
	flags.IntVar(&timeoutSecs, "timeout", 0, "Request timeout in seconds (default 30)")
	flags.StringVar(&profileName, "profile", "", "Profile to load settings from")
	flags.StringVar(&configPath, "config", "", "Config file (default: OS config dir)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")

	caCmd.Flags().StringVarP(&caOut, "out", "o", "", "Write the CA to this file instead of stdout")
	caCmd.Flags().BoolVar(&caWithNUL, "nul", false, "Append a NUL byte (C string form)")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(caCmd)
	rootCmd.AddCommand(connectivityCmd)
	rootCmd.AddCommand(probeCmd)
}

// target is a resolved discovery request
type target struct {
	name     string // profile name, empty when flags only
	registry *config.Registry
	profile  *config.Profile
	material *config.Material
}

// mergeFlags overlays explicitly set flags onto base
func mergeFlags(cmd *cobra.Command, base *config.Profile) *config.Profile {
	var p config.Profile
	if base != nil {
		p = *base
	}
	set := func(name string) bool { return cmd.Flags().Changed(name) }

	if set("endpoint") {
		p.Endpoint = endpoint
	}
	if set("thing") {
		p.ThingName = thingName
	}
	if set("cert") {
		p.CertFile = certFile
	}
	if set("key") {
		p.KeyFile = keyFile
	}
	if set("ca") {
		p.CAFile = caFile
	}
	if set("port") {
		p.Port = port
	}
	if set("timeout") {
		p.TimeoutSeconds = timeoutSecs
	}
	return &p
}

// resolveTarget builds the request from the selected profile and flags.
// Without --profile the default profile is used only when --endpoint is not
// given.
func resolveTarget(cmd *cobra.Command) (*target, error) {
	registry, err := config.LoadRegistry(configPath)
	if err != nil {
		return nil, err
	}

	t := &target{registry: registry}
	base := &config.Profile{}

	name := profileName
	if name == "" && !cmd.Flags().Changed("endpoint") {
		name = registry.DefaultProfile
	}
	if name != "" {
		base, err = registry.GetProfile(name)
		if err != nil {
			return nil, err
		}
		t.name = name
	}

	t.profile = mergeFlags(cmd, base)
	if err := t.profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w (set flags or use --profile)", err)
	}

	t.material, err = t.profile.LoadMaterial()
	if err != nil {
		return nil, err
	}

	return t, nil
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// discover runs the discovery call for t
func (t *target) discover(cmd *cobra.Command) (*greengrass.DiscoveryInfo, error) {
	opts := []greengrass.Option{}
	if t.material.CA != nil {
		opts = append(opts, greengrass.WithCA(t.material.CA))
	}
	if t.profile.Port != 0 {
		opts = append(opts, greengrass.WithPort(t.profile.Port))
	}
	if t.profile.TimeoutSeconds != 0 {
		opts = append(opts, greengrass.WithTimeout(t.profile.Timeout()))
	}

	info, err := greengrass.Discover(commandContext(cmd), t.profile.Endpoint, t.profile.ThingName,
		t.material.Cert, t.material.Key, opts...)
	if err != nil {
		return nil, err
	}

	t.rememberCore(info)
	return info, nil
}

// rememberCore records the Core address on the profile the request came from.
// The config file is rewritten only when the address changed.
func (t *target) rememberCore(info *greengrass.DiscoveryInfo) {
	if t.name == "" {
		return
	}
	host, p, err := info.Connectivity()
	if err != nil {
		return
	}
	stored := t.registry.Profiles[t.name]
	if stored == nil {
		return
	}
	core := net.JoinHostPort(host, strconv.Itoa(p))
	if stored.LastCore == core {
		return
	}
	stored.LastCore = core
	if err := t.registry.Save(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not update profile %q: %v\n", t.name, err)
	}
}

// interactive reports whether styled output and the spinner are shown
func interactive() bool {
	return outputFormat == "detailed" && ui.IsTerminal()
}

// startSpinner shows label on stderr for interactive use. The returned
// function stops it and must be called before printing the result.
func startSpinner(label string) func() {
	if !interactive() {
		return func() {}
	}
	return ui.StartSpinner(label)
}

// reportFailure prints a failure box for interactive use and returns err
func reportFailure(title string, err error) error {
	if interactive() {
		fmt.Fprintln(os.Stderr, ui.RenderFailure(title, err, greengrass.GetTroubleshootingHint(err)))
	}
	return err
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Query the discovery API and print the result",
	Long: `Call the Greengrass discovery API for a thing and print the groups,
Cores and connectivity entries returned.`,
	Example: `  # Flags only
  ggdiscover discover --endpoint abc123-ats.iot.eu-west-1.amazonaws.com \
    --thing sensor-01 --cert sensor-01.cert.pem --key sensor-01.private.key

  # Default profile, raw JSON response
  ggdiscover discover --format json`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(cmd)
	if err != nil {
		return err
	}

	stop := startSpinner("Querying discovery for " + t.profile.ThingName)
	info, err := t.discover(cmd)
	stop()
	if err != nil {
		return reportFailure("Discovery failed", fmt.Errorf("discovery failed: %w", err))
	}

	out := cmd.OutOrStdout()
	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(info.Raw(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "compact":
		fmt.Fprint(out, info.FormatCompact())
	default:
		fmt.Fprintln(out, discoveryResult(t, info).Render())
		fmt.Fprintln(out)
		fmt.Fprint(out, info.FormatDetailed())
	}

	return nil
}

// discoveryResult summarizes a discovery response as a result box
func discoveryResult(t *target, info *greengrass.DiscoveryInfo) *ui.Result {
	host, p, connErr := info.Connectivity()
	_, caErr := info.CAPEM()

	var r *ui.Result
	if connErr == nil && caErr == nil {
		r = ui.NewSuccessResult("Core discovered")
	} else {
		r = ui.NewWarningResult("Ambiguous discovery response")
		r.AddTroubleshooting(greengrass.GetTroubleshootingHint(greengrass.ErrAmbiguousDiscovery)...)
	}

	r.AddDetail("Thing", t.profile.ThingName)
	if t.name != "" {
		r.AddDetail("Profile", t.name)
	}
	if connErr == nil {
		r.AddDetail("Core", net.JoinHostPort(host, strconv.Itoa(p)))
	}
	r.AddDetail("Groups", strconv.Itoa(len(info.Raw().GGGroups)))
	return r
}

var caCmd = &cobra.Command{
	Use:   "ca",
	Short: "Print or save the group CA certificate",
	Long: `Print or save the CA certificate of the thing's Greengrass group.

Fails if the response contains more than one group or CA.`,
	Example: `  ggdiscover ca --out group-ca.pem`,
	RunE:    runCA,
}

func runCA(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(cmd)
	if err != nil {
		return err
	}

	info, err := t.discover(cmd)
	if err != nil {
		return reportFailure("Discovery failed", fmt.Errorf("discovery failed: %w", err))
	}

	var data []byte
	if caWithNUL {
		data, err = info.CA()
	} else {
		data, err = info.CAPEM()
	}
	if err != nil {
		return reportFailure("No single group CA", err)
	}

	if caOut == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(caOut, data, 0644); err != nil {
		return fmt.Errorf("failed to write CA: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Group CA written to %s\n", caOut)
	return nil
}

var connectivityCmd = &cobra.Command{
	Use:   "connectivity",
	Short: "Print the Core address as host:port",
	Long: `Print the address of the thing's Greengrass Core as host:port.

Fails if the response contains more than one group, Core or address.`,
	RunE: runConnectivity,
}

func runConnectivity(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(cmd)
	if err != nil {
		return err
	}

	info, err := t.discover(cmd)
	if err != nil {
		return reportFailure("Discovery failed", fmt.Errorf("discovery failed: %w", err))
	}

	host, p, err := info.Connectivity()
	if err != nil {
		return reportFailure("No single Core address", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), net.JoinHostPort(host, strconv.Itoa(p)))
	return nil
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Discover the Core and test a TLS connection to it",
	Long: `Run discovery, then open a mutual TLS connection to the Core using the
group CA from the response. Confirms the Core is reachable and presents a
certificate signed by its group CA.`,
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(cmd)
	if err != nil {
		return err
	}

	stop := startSpinner("Connecting to Core")
	info, err := t.discover(cmd)
	if err != nil {
		stop()
		return reportFailure("Discovery failed", fmt.Errorf("discovery failed: %w", err))
	}

	result, err := greengrass.ProbeCore(commandContext(cmd), info, t.material.Cert, t.material.Key)
	stop()
	if err != nil {
		return reportFailure("Core unreachable", fmt.Errorf("probe failed: %w", err))
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(map[string]interface{}{
			"address":      result.Address,
			"tls_version":  result.TLSVersionName(),
			"cipher_suite": result.CipherSuiteName(),
			"peer_subject": result.PeerSubject,
			"elapsed_ms":   result.Elapsed.Milliseconds(),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.NewSuccessResult("Core reachable",
		ui.Detail{Key: "Core", Value: result.Address},
		ui.Detail{Key: "TLS", Value: result.TLSVersionName()},
		ui.Detail{Key: "Cipher", Value: result.CipherSuiteName()},
		ui.Detail{Key: "Certificate", Value: result.PeerSubject},
		ui.Detail{Key: "Handshake", Value: result.Elapsed.Round(time.Millisecond).String()},
	).Render())
	return nil
}
