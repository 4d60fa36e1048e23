// Package config provides the device registry for the Tasmota CLI.
//
// The registry is a YAML file that maps short device names to connection
// settings (URL, username, timeout) and optional output labels, so that
// commands can say --device kitchen instead of repeating the address.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/tasmota/config.yaml or $HOME/.config/tasmota/config.yaml
//   - macOS: $HOME/.config/tasmota/config.yaml
//   - Windows: %LOCALAPPDATA%\tasmota\config.yaml
//
// # Security
//
// Passwords are never written to the registry. They come from --password,
// TASMOTA_PASSWORD or an interactive prompt.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := registry.AddDevice("kitchen", "192.168.1.50", "admin", 0); err != nil {
//	    log.Fatal(err)
//	}
//	_ = registry.SetOutputLabel("kitchen", 1, "Coffee machine", "")
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File writes are protected by a mutex and are atomic (write then rename).
package config
