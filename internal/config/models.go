package config

import (
	"fmt"
	"os"
	"time"
)

// CurrentVersion is the registry file format version
const CurrentVersion = 1

// Registry represents the entire user configuration file.
// It stores named discovery profiles; certificate material stays in its own
// files and only the paths are recorded.
type Registry struct {
	Version        int                 `yaml:"version"`
	DefaultProfile string              `yaml:"default_profile,omitempty"`
	Profiles       map[string]*Profile `yaml:"profiles,omitempty"` // Keyed by profile name
}

// Profile holds everything needed to call the discovery API for one thing.
type Profile struct {
	Endpoint       string `yaml:"endpoint"`            // IoT data endpoint hostname
	ThingName      string `yaml:"thing_name"`          // IoT thing name
	CertFile       string `yaml:"cert_file"`           // Client certificate (PEM)
	KeyFile        string `yaml:"key_file"`            // Client private key (PEM)
	CAFile         string `yaml:"ca_file,omitempty"`   // Optional root CA (PEM), bundled root when empty
	Port           int    `yaml:"port,omitempty"`      // Discovery port, 8443 when zero
	TimeoutSeconds int    `yaml:"timeout,omitempty"`   // Request timeout, client default when zero
	LastCore       string `yaml:"last_core,omitempty"` // host:port from the last unambiguous discovery
}

// Material is the PEM content referenced by a profile
type Material struct {
	Cert []byte
	Key  []byte
	CA   []byte // nil when the profile has no CAFile
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:  CurrentVersion,
		Profiles: make(map[string]*Profile),
	}
}

// Validate checks that the required fields are set
func (p *Profile) Validate() error {
	switch {
	case p.Endpoint == "":
		return fmt.Errorf("profile: endpoint is required")
	case p.ThingName == "":
		return fmt.Errorf("profile: thing name is required")
	case p.CertFile == "":
		return fmt.Errorf("profile: certificate file is required")
	case p.KeyFile == "":
		return fmt.Errorf("profile: key file is required")
	case p.Port < 0 || p.Port > 65535:
		return fmt.Errorf("profile: port %d out of range", p.Port)
	case p.TimeoutSeconds < 0:
		return fmt.Errorf("profile: timeout must not be negative")
	}
	return nil
}

// Timeout returns the request timeout, or zero for the client default
func (p *Profile) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// LoadMaterial reads the certificate, key and optional CA files
func (p *Profile) LoadMaterial() (*Material, error) {
	cert, err := os.ReadFile(p.CertFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}

	key, err := os.ReadFile(p.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	m := &Material{Cert: cert, Key: key}
	if p.CAFile != "" {
		m.CA, err = os.ReadFile(p.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA: %w", err)
		}
	}

	return m, nil
}
