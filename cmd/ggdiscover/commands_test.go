package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/muurk/ggdiscover/internal/config"
)

// newFlagCommand returns a command sharing the root's persistent flags and
// the ca command's flags
func newFlagCommand(t *testing.T, set map[string]string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().AddFlagSet(rootCmd.PersistentFlags())
	cmd.Flags().AddFlagSet(caCmd.Flags())
	t.Cleanup(func() {
		reset := func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
		rootCmd.PersistentFlags().VisitAll(reset)
		caCmd.Flags().VisitAll(reset)
	})

	for name, value := range set {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("Set(%s) error = %v", name, err)
		}
	}
	return cmd
}

func TestMergeFlags(t *testing.T) {
	base := &config.Profile{
		Endpoint:  "profile.example.com",
		ThingName: "profile-thing",
		CertFile:  "profile.pem",
		KeyFile:   "profile.key",
		Port:      9443,
	}

	cmd := newFlagCommand(t, map[string]string{
		"thing":   "flag-thing",
		"timeout": "12",
	})

	got := mergeFlags(cmd, base)

	if got.Endpoint != "profile.example.com" {
		t.Errorf("Endpoint = %q, want profile value", got.Endpoint)
	}
	if got.ThingName != "flag-thing" {
		t.Errorf("ThingName = %q, want flag-thing", got.ThingName)
	}
	if got.Port != 9443 {
		t.Errorf("Port = %d, want 9443", got.Port)
	}
	if got.TimeoutSeconds != 12 {
		t.Errorf("TimeoutSeconds = %d, want 12", got.TimeoutSeconds)
	}
	if base.ThingName != "profile-thing" {
		t.Error("mergeFlags() must not modify the base profile")
	}
}

func TestResolveTarget_DefaultProfile(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	for _, p := range []string{certPath, keyPath} {
		if err := os.WriteFile(p, []byte("PEM"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	cfgPath := filepath.Join(dir, "config.yaml")
	reg := config.NewRegistry()
	if err := reg.SetProfile("lab", &config.Profile{
		Endpoint:  "lab.example.com",
		ThingName: "sensor",
		CertFile:  certPath,
		KeyFile:   keyPath,
	}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Save(cfgPath); err != nil {
		t.Fatal(err)
	}

	cmd := newFlagCommand(t, map[string]string{"config": cfgPath})

	target, err := resolveTarget(cmd)
	if err != nil {
		t.Fatalf("resolveTarget() error = %v", err)
	}
	if target.name != "lab" {
		t.Errorf("name = %q, want lab", target.name)
	}
	if target.profile.Endpoint != "lab.example.com" {
		t.Errorf("Endpoint = %q, want lab.example.com", target.profile.Endpoint)
	}
	if string(target.material.Cert) != "PEM" {
		t.Errorf("Cert = %q, want PEM", target.material.Cert)
	}
}

func TestResolveTarget_EndpointSkipsDefault(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	reg := config.NewRegistry()
	_ = reg.SetProfile("lab", &config.Profile{
		Endpoint: "lab.example.com", ThingName: "sensor", CertFile: "c", KeyFile: "k",
	})
	if err := reg.Save(cfgPath); err != nil {
		t.Fatal(err)
	}

	cmd := newFlagCommand(t, map[string]string{
		"config":   cfgPath,
		"endpoint": "other.example.com",
	})

	// No thing/cert/key flags and the default profile is ignored
	if _, err := resolveTarget(cmd); err == nil {
		t.Error("resolveTarget() should fail validation without the default profile")
	}
}

func TestResolveTarget_UnknownProfile(t *testing.T) {
	cmd := newFlagCommand(t, map[string]string{
		"config":  filepath.Join(t.TempDir(), "config.yaml"),
		"profile": "missing",
	})

	if _, err := resolveTarget(cmd); err == nil {
		t.Error("resolveTarget() should fail for an unknown profile")
	}
}

func TestMergeFlags_NilBase(t *testing.T) {
	cmd := newFlagCommand(t, map[string]string{"endpoint": "flag.example.com"})

	got := mergeFlags(cmd, nil)
	if got.Endpoint != "flag.example.com" {
		t.Errorf("Endpoint = %q, want flag.example.com", got.Endpoint)
	}
}

func TestResolveTarget_EmptyProfile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\ndefault_profile: lab\nprofiles:\n  lab:\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := newFlagCommand(t, map[string]string{"config": cfgPath})

	_, err := resolveTarget(cmd)
	if err == nil || !strings.Contains(err.Error(), `profile "lab" is empty`) {
		t.Errorf("resolveTarget() error = %v, want empty profile error", err)
	}
}
