// Package config manages the ggdiscover profile file.
//
// A profile names everything a discovery call needs: the IoT endpoint, the
// thing name and the paths of the client certificate, private key and
// optional root CA. Profiles live in a YAML file at an OS-specific location:
//   - Linux: $XDG_CONFIG_HOME/ggdiscover/config.yaml or $HOME/.config/ggdiscover/config.yaml
//   - macOS: $HOME/.config/ggdiscover/config.yaml
//   - Windows: %LOCALAPPDATA%\ggdiscover\config.yaml
//
// # Security
//
// Private keys and certificates are never copied into the file. Only their
// paths are stored.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = registry.SetProfile("lab", &config.Profile{
//	    Endpoint:  "abc123-ats.iot.eu-west-1.amazonaws.com",
//	    ThingName: "sensor-01",
//	    CertFile:  "sensor-01.cert.pem",
//	    KeyFile:   "sensor-01.private.key",
//	})
//
//	if err := registry.Save(""); err != nil {
//	    log.Fatal(err)
//	}
package config
