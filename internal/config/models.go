package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/muurk/tasmota/internal/tasmota"
)

// CurrentVersion is the registry file format version
const CurrentVersion = 1

// Registry represents the entire user configuration file.
// It stores named devices and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device describes how to reach one Tasmota device.
// The password is never stored; it is passed on the command line, read from
// the environment or prompted.
type Device struct {
	URL            string              `yaml:"url"`
	Username       string              `yaml:"username,omitempty"`
	TimeoutSeconds int                 `yaml:"timeout_seconds,omitempty"` // 0 selects the default
	LastSeen       time.Time           `yaml:"last_seen,omitempty"`       // Last successful connection
	Outputs        map[int]*OutputMeta `yaml:"outputs,omitempty"`         // Keyed by output number 1-8
}

// OutputMeta is client-side metadata for one relay output
type OutputMeta struct {
	Label string `yaml:"label"`
	Icon  string `yaml:"icon,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultDevice   string `yaml:"default_device,omitempty"` // Used when --device and --url are absent
	DefaultUsername string `yaml:"default_username"`         // Usually "admin"
	Format          string `yaml:"format,omitempty"`         // detailed or json
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DefaultUsername: "admin",
		Format:          "detailed",
	}
}

// Timeout returns the configured timeout, or 0 for the library default
func (d *Device) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// Config builds the connection settings for this device.
// The username is only sent together with a password.
func (d *Device) Config(password string) tasmota.Config {
	cfg := tasmota.Config{
		URL:     d.URL,
		Timeout: d.Timeout(),
	}
	if password != "" {
		cfg.Username = d.Username
		cfg.Password = password
	}
	return cfg
}

// OutputLabel returns the label for an output, or "" if none is set
func (d *Device) OutputLabel(output int) string {
	if meta, ok := d.Outputs[output]; ok && meta != nil {
		return meta.Label
	}
	return ""
}

// ValidateDeviceName checks that name can be used as a registry key
func ValidateDeviceName(name string) error {
	if name == "" {
		return fmt.Errorf("device name cannot be empty")
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return fmt.Errorf("device name %q cannot contain whitespace", name)
	}
	return nil
}

// GetDevice retrieves a device by name.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(name string) *Device {
	return r.Devices[name]
}

// AddDevice adds a device or updates the connection settings of an existing
// one. The URL is normalized; output labels and LastSeen are preserved.
func (r *Registry) AddDevice(name, rawURL, username string, timeoutSeconds int) (*Device, error) {
	if err := ValidateDeviceName(name); err != nil {
		return nil, err
	}
	baseURL, err := tasmota.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	if timeoutSeconds < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %d", timeoutSeconds)
	}

	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	device, exists := r.Devices[name]
	if !exists {
		device = &Device{Outputs: make(map[int]*OutputMeta)}
		r.Devices[name] = device
	}
	device.URL = baseURL
	device.Username = username
	device.TimeoutSeconds = timeoutSeconds
	return device, nil
}

// RemoveDevice deletes a device. It reports whether the device existed.
func (r *Registry) RemoveDevice(name string) bool {
	if _, exists := r.Devices[name]; !exists {
		return false
	}
	delete(r.Devices, name)
	if r.Preferences != nil && r.Preferences.DefaultDevice == name {
		r.Preferences.DefaultDevice = ""
	}
	return true
}

// MarkSeen records a successful connection to a device
func (r *Registry) MarkSeen(name string) {
	if device := r.Devices[name]; device != nil {
		device.LastSeen = time.Now()
	}
}

// SetOutputLabel sets or clears (empty label) the label of a relay output
func (r *Registry) SetOutputLabel(name string, output int, label, icon string) error {
	device := r.Devices[name]
	if device == nil {
		return fmt.Errorf("unknown device %q", name)
	}
	if output < 1 || output > tasmota.MaxOutputs {
		return fmt.Errorf("output must be between 1 and %d, got %d", tasmota.MaxOutputs, output)
	}

	if label == "" {
		delete(device.Outputs, output)
		return nil
	}
	if device.Outputs == nil {
		device.Outputs = make(map[int]*OutputMeta)
	}
	device.Outputs[output] = &OutputMeta{Label: label, Icon: icon}
	return nil
}

// DeviceNames returns the registered device names in sorted order
func (r *Registry) DeviceNames() []string {
	names := make([]string, 0, len(r.Devices))
	for name := range r.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
