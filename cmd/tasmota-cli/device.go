package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/tasmota/internal/tasmota"
	"github.com/muurk/tasmota/internal/ui"
	"github.com/muurk/tasmota/internal/urls"
)

func init() {
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(rawCmd)
}

// nameCmd reads or sets an output's friendly name
var nameCmd = &cobra.Command{
	Use:   "name <output> [new-name]",
	Short: "Read or set the friendly name of an output",
	Long: `Read or set the friendly name of output 1-8.

Names are at most 32 characters. The firmware treats the name "1" as a
request to restore its default name, so setting it is reported as a failure.`,
	Example: `  # Show the name of output 1
  tasmota-cli name 1

  # Rename output 2
  tasmota-cli name 2 "Coffee Machine"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runName,
}

func runName(cmd *cobra.Command, args []string) error {
	output, err := tasmota.ParseFriendlyNameOutput(args[0])
	if err != nil {
		return report("Invalid arguments", err)
	}

	var newName string
	set := len(args) > 1
	if set {
		newName = strings.Join(args[1:], " ")
		if err := tasmota.ValidateFriendlyName(newName); err != nil {
			return report("Invalid arguments", err)
		}
	}

	return withDevice(cmd, "Friendly name", func(ctx context.Context, dev *tasmota.Device, t *target) error {
		var name string
		if set {
			name, err = dev.SetFriendlyName(ctx, output, newName)
		} else {
			name, err = dev.FriendlyName(ctx, output)
		}
		if err != nil {
			return err
		}

		if current.Format == formatJSON {
			return printJSON(map[string]any{"device": t.DisplayName(), output.Key(): name})
		}

		title := "Friendly name"
		if set {
			title = "Friendly name updated"
		}
		stdout().PrintSuccess(title,
			ui.Detail{Key: "Device", Value: t.DisplayName()},
			ui.Detail{Key: fmt.Sprintf("Output %s", output.Code()), Value: name})
		return nil
	})
}

// statusCmd shows status information
var statusCmd = &cobra.Command{
	Use:   "status [kind]",
	Short: "Show device status information",
	Long: `Show status information reported by the device.

Kinds:
` + statusKindHelp() + `
See ` + urls.StatusCommands,
	Example: `  # Abbreviated status
  tasmota-cli status

  # Network information
  tasmota-cli status network

  # Everything, as JSON
  tasmota-cli status all --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func statusKindHelp() string {
	var b strings.Builder
	for _, kind := range tasmota.StatusKinds() {
		fmt.Fprintf(&b, "  %-12s %s\n", kind.String(), kind.Description())
	}
	return b.String()
}

func runStatus(cmd *cobra.Command, args []string) error {
	kind := tasmota.StatusAbbreviated
	if len(args) == 1 {
		parsed, err := tasmota.ParseStatusKind(args[0])
		if err != nil {
			return report("Invalid arguments", err)
		}
		kind = parsed
	}

	return withDevice(cmd, "Status", func(ctx context.Context, dev *tasmota.Device, t *target) error {
		reply, err := dev.Status(ctx, kind)
		if err != nil {
			return err
		}
		return printReply("Status: "+kind.Description(), tasmota.StatusCommand(kind), t, reply)
	})
}

// rawCmd sends an arbitrary command
var rawCmd = &cobra.Command{
	Use:   "raw <command...>",
	Short: "Send a raw command and print the reply",
	Long: `Send any Tasmota command and print the reply without checking it.

The arguments are joined with spaces to form the command. Available
commands are listed at ` + urls.CommandReference,
	Example: `  # Read the PulseTime of output 1
  tasmota-cli raw PulseTime1

  # Set the timezone
  tasmota-cli raw Timezone 99`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRaw,
}

func runRaw(cmd *cobra.Command, args []string) error {
	command := strings.Join(args, " ")
	return withDevice(cmd, "Command", func(ctx context.Context, dev *tasmota.Device, t *target) error {
		reply, err := dev.SendRaw(ctx, command)
		if err != nil {
			return err
		}
		return printReply("Command reply", command, t, reply)
	})
}

// printReply prints a reply as a header plus tree, or as JSON
func printReply(title, command string, t *target, reply *tasmota.Reply) error {
	if current.Format == formatJSON {
		out, err := tasmota.FormatJSON(reply)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	p := stdout()
	p.PrintHeader(title, command, ui.Detail{Key: "Device", Value: t.DisplayName()})
	p.Newline()
	p.Print(tasmota.FormatReply(reply))
	return nil
}
