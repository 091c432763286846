package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "ggdiscover"
	configFile = "config.yaml"
)

// fileMutex serializes writes to the configuration file
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory for the application.
//   - Linux: $XDG_CONFIG_HOME/ggdiscover or $HOME/.config/ggdiscover
//   - macOS: $HOME/.config/ggdiscover
//   - Windows: %LOCALAPPDATA%\ggdiscover
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// resolvePath returns path, or the default config path when empty
func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return GetConfigPath()
}

// LoadRegistry loads the registry from path (default location when empty).
// A missing file yields a new empty registry. A profile key with no fields
// under it is rejected.
func LoadRegistry(path string) (*Registry, error) {
	configPath, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if registry.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", registry.Version, CurrentVersion)
	}

	if registry.Profiles == nil {
		registry.Profiles = make(map[string]*Profile)
	}
	for name, p := range registry.Profiles {
		if p == nil {
			return nil, fmt.Errorf("profile %q is empty", name)
		}
	}

	return &registry, nil
}

// Save writes the registry to path (default location when empty).
// The file is written to a temporary sibling and renamed into place.
func (r *Registry) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	configPath, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# ggdiscover configuration
# Profiles reference certificate and key files by path; their content is
# never copied into this file.

`)
	data = append(header, data...)

	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// GetProfile returns the named profile. An empty name selects the default
// profile.
func (r *Registry) GetProfile(name string) (*Profile, error) {
	if name == "" {
		name = r.DefaultProfile
	}
	if name == "" {
		return nil, fmt.Errorf("no profile given and no default profile set")
	}
	p, ok := r.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	if p == nil {
		return nil, fmt.Errorf("profile %q is empty", name)
	}
	return p, nil
}

// SetProfile validates and stores a profile. The first profile stored
// becomes the default.
func (r *Registry) SetProfile(name string, p *Profile) error {
	if name == "" {
		return fmt.Errorf("profile name is required")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Profile)
	}
	r.Profiles[name] = p
	if r.DefaultProfile == "" {
		r.DefaultProfile = name
	}
	return nil
}

// RemoveProfile deletes a profile and reports whether it existed.
// Removing the default profile clears the default.
func (r *Registry) RemoveProfile(name string) bool {
	if _, ok := r.Profiles[name]; !ok {
		return false
	}
	delete(r.Profiles, name)
	if r.DefaultProfile == name {
		r.DefaultProfile = ""
	}
	return true
}

// ProfileNames returns the profile names in sorted order
func (r *Registry) ProfileNames() []string {
	names := make([]string, 0, len(r.Profiles))
	for name := range r.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
