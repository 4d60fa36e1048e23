// Tasmota-cli controls Tasmota relay devices over their HTTP command API.
//
// It switches relay outputs, configures blinking and friendly names, reads
// status information and sends raw commands. Devices can be addressed
// directly with --url or by a name from the local device registry.
//
// Usage:
//
//	tasmota-cli [command] [flags]
//
// Settings can also come from TASMOTA_* environment variables or a .env
// file in the working directory. See 'tasmota-cli --help' for commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/tasmota/internal/logging"
	"github.com/muurk/tasmota/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tasmota-cli",
	Short: "Tasmota Relay Control Utility",
	Long: `A command line utility for Tasmota relay devices.

Talks to the device's HTTP command interface (/cm?cmnd=...) to switch
outputs, configure blinking, rename outputs and read status information.

Devices are given with --url, or registered once with 'devices add' and
then selected with --device (or the default device).`,
	Version:           version.Version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Example: `  # Show the state of every output
  tasmota-cli power --url 192.168.1.50

  # Register a device and make it the default
  tasmota-cli devices add kitchen 192.168.1.50 --default

  # Toggle output 2 of the default device
  tasmota-cli power toggle 2

  # Full status as JSON
  tasmota-cli status all --format json`,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", version.Name, version.Full())
	},
}
