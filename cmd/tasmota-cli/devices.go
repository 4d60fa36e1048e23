package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/tasmota/internal/config"
	"github.com/muurk/tasmota/internal/tasmota"
	"github.com/muurk/tasmota/internal/ui"
)

// Registry command flags
var (
	makeDefault bool
	checkDevice bool
	labelIcon   string
)

func init() {
	rootCmd.AddCommand(devicesCmd)

	devicesCmd.AddCommand(devicesAddCmd)
	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesRemoveCmd)
	devicesCmd.AddCommand(devicesLabelCmd)
	devicesCmd.AddCommand(devicesDefaultCmd)

	devicesAddCmd.Flags().BoolVar(&makeDefault, "default", false, "Make this the default device")
	devicesAddCmd.Flags().BoolVar(&checkDevice, "check", false, "Connect to the device before saving")
	devicesLabelCmd.Flags().StringVar(&labelIcon, "icon", "", "Optional icon shown with the label")
}

// devicesCmd groups the registry commands
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage the local device registry",
	Long: `Manage named devices stored in the local registry.

The registry keeps URLs, usernames, timeouts and output labels. Passwords
are never stored; pass them with --password, TASMOTA_PASSWORD or
--ask-password.`,
	Example: `  # Register a device
  tasmota-cli devices add kitchen 192.168.1.50 --user admin --default

  # List registered devices
  tasmota-cli devices list

  # Label output 2
  tasmota-cli devices label kitchen 2 "Kettle"`,
}

var devicesAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add or update a device",
	Long: `Add a device to the registry, or update its URL, username and timeout.

Existing output labels are kept. The global --user and --timeout flags set
the stored username and timeout.`,
	Example: `  tasmota-cli devices add kitchen 192.168.1.50
  tasmota-cli devices add porch http://porch.local --user admin --timeout 5s --check -p secret`,
	Args: cobra.ExactArgs(2),
	RunE: runDevicesAdd,
}

func runDevicesAdd(cmd *cobra.Command, args []string) error {
	name, rawURL := args[0], args[1]

	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load device registry: %w", err)
	}

	timeoutSeconds := int(current.Timeout / time.Second)
	device, err := reg.AddDevice(name, rawURL, current.User, timeoutSeconds)
	if err != nil {
		return report("Invalid device", err)
	}

	if checkDevice {
		password, err := resolvePassword(current, device.URL)
		if err != nil {
			return report("Connection failed", err)
		}
		cfg := device.Config(password)
		if password != "" && cfg.Username == "" {
			cfg.Username = reg.Preferences.DefaultUsername
		}
		if _, err := tasmota.Connect(commandContext(cmd), cfg); err != nil {
			return report("Connection failed", err)
		}
		reg.MarkSeen(name)
	}

	if makeDefault || reg.Preferences.DefaultDevice == "" {
		reg.Preferences.DefaultDevice = name
	}

	if err := saveRegistry(reg); err != nil {
		return fmt.Errorf("failed to save device registry: %w", err)
	}

	details := []ui.Detail{
		{Key: "Name", Value: name},
		{Key: "URL", Value: device.URL},
	}
	if device.Username != "" {
		details = append(details, ui.Detail{Key: "Username", Value: device.Username})
	}
	if reg.Preferences.DefaultDevice == name {
		details = append(details, ui.Detail{Key: "Default", Value: "yes"})
	}
	stdout().PrintSuccess("Device saved", details...)
	return nil
}

var devicesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered devices",
	Args:    cobra.NoArgs,
	RunE:    runDevicesList,
}

// deviceListing is the JSON form of one registry entry
type deviceListing struct {
	Name     string            `json:"name"`
	URL      string            `json:"url"`
	Username string            `json:"username,omitempty"`
	Timeout  string            `json:"timeout,omitempty"`
	LastSeen *time.Time        `json:"last_seen,omitempty"`
	Default  bool              `json:"default"`
	Labels   map[string]string `json:"labels,omitempty"`
}

func listDevices(reg *config.Registry) []deviceListing {
	var listings []deviceListing
	for _, name := range reg.DeviceNames() {
		d := reg.GetDevice(name)
		l := deviceListing{
			Name:     name,
			URL:      d.URL,
			Username: d.Username,
			Default:  reg.Preferences.DefaultDevice == name,
		}
		if d.TimeoutSeconds > 0 {
			l.Timeout = d.Timeout().String()
		}
		if !d.LastSeen.IsZero() {
			seen := d.LastSeen
			l.LastSeen = &seen
		}
		for output, meta := range d.Outputs {
			if meta == nil || meta.Label == "" {
				continue
			}
			if l.Labels == nil {
				l.Labels = make(map[string]string)
			}
			l.Labels[strconv.Itoa(output)] = meta.Label
		}
		listings = append(listings, l)
	}
	return listings
}

func runDevicesList(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load device registry: %w", err)
	}

	listings := listDevices(reg)
	if current.Format == formatJSON {
		if listings == nil {
			listings = []deviceListing{}
		}
		return printJSON(listings)
	}

	p := stdout()
	if len(listings) == 0 {
		p.PrintWarning("No devices registered",
			ui.Detail{Key: "Add one", Value: "tasmota-cli devices add <name> <url>"})
		return nil
	}

	p.PrintHeader("Registered devices", fmt.Sprintf("%d device(s)", len(listings)))
	p.Newline()
	for _, l := range listings {
		marker := ui.OffMarker
		if l.Default {
			marker = ui.OnMarker
		}
		p.Println(fmt.Sprintf("  %s %s", marker, ui.HeaderTitleStyle.UnsetPaddingLeft().Render(l.Name)))
		p.Println(fmt.Sprintf("      %s", l.URL))

		var extra []string
		if l.Username != "" {
			extra = append(extra, "user "+l.Username)
		}
		if l.Timeout != "" {
			extra = append(extra, "timeout "+l.Timeout)
		}
		if l.LastSeen != nil {
			extra = append(extra, "last seen "+l.LastSeen.Format("2006-01-02 15:04"))
		}
		if len(extra) > 0 {
			p.Println("      " + ui.HeaderParamKeyStyle.UnsetPaddingLeft().Render(strings.Join(extra, ", ")))
		}

		outputs := make([]string, 0, len(l.Labels))
		for output := range l.Labels {
			outputs = append(outputs, output)
		}
		sort.Strings(outputs)
		for _, output := range outputs {
			p.Println(fmt.Sprintf("      %s: %s", output, l.Labels[output]))
		}
	}
	return nil
}

var devicesRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a device",
	Args:    cobra.ExactArgs(1),
	RunE:    runDevicesRemove,
}

func runDevicesRemove(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load device registry: %w", err)
	}
	if !reg.RemoveDevice(args[0]) {
		return report("Remove failed", fmt.Errorf("unknown device %q", args[0]))
	}
	if err := saveRegistry(reg); err != nil {
		return fmt.Errorf("failed to save device registry: %w", err)
	}
	stdout().PrintSuccess("Device removed", ui.Detail{Key: "Name", Value: args[0]})
	return nil
}

var devicesLabelCmd = &cobra.Command{
	Use:   "label <name> <output> [label]",
	Short: "Set or clear the label of an output",
	Long: `Set the label shown for an output in 'power' and 'watch'.

Without a label the existing one is removed. Labels are local only; use
'name' to change the friendly name stored on the device.`,
	Example: `  tasmota-cli devices label kitchen 2 Kettle
  tasmota-cli devices label kitchen 2`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDevicesLabel,
}

func runDevicesLabel(cmd *cobra.Command, args []string) error {
	output, err := strconv.Atoi(args[1])
	if err != nil {
		return report("Invalid arguments", fmt.Errorf("output must be a number, got %q", args[1]))
	}
	label := strings.Join(args[2:], " ")

	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load device registry: %w", err)
	}
	if err := reg.SetOutputLabel(args[0], output, label, labelIcon); err != nil {
		return report("Label failed", err)
	}
	if err := saveRegistry(reg); err != nil {
		return fmt.Errorf("failed to save device registry: %w", err)
	}

	if label == "" {
		stdout().PrintSuccess("Label removed",
			ui.Detail{Key: "Device", Value: args[0]},
			ui.Detail{Key: "Output", Value: args[1]})
		return nil
	}
	stdout().PrintSuccess("Label saved",
		ui.Detail{Key: "Device", Value: args[0]},
		ui.Detail{Key: "Output " + args[1], Value: label})
	return nil
}

var devicesDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default device",
	Args:  cobra.ExactArgs(1),
	RunE:  runDevicesDefault,
}

func runDevicesDefault(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load device registry: %w", err)
	}
	if reg.GetDevice(args[0]) == nil {
		return report("Default not changed", fmt.Errorf("unknown device %q", args[0]))
	}
	reg.Preferences.DefaultDevice = args[0]
	if err := saveRegistry(reg); err != nil {
		return fmt.Errorf("failed to save device registry: %w", err)
	}
	stdout().PrintSuccess("Default device set", ui.Detail{Key: "Name", Value: args[0]})
	return nil
}
