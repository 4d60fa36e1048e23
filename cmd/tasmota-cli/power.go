package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/tasmota/internal/tasmota"
	"github.com/muurk/tasmota/internal/ui"
	"github.com/muurk/tasmota/internal/urls"
)

// Power command flags
var (
	assumeYes bool
)

func init() {
	rootCmd.AddCommand(powerCmd)
	rootCmd.AddCommand(blinkCmd)
}

// powerCmd queries or switches relay outputs
var powerCmd = &cobra.Command{
	Use:   "power [get|on|off|toggle|blink|blink-off] [output]",
	Short: "Query or switch relay outputs",
	Long: `Query or switch the relay outputs of a device.

Without an action the state of every output is shown. Outputs are numbered
1-8; "all" addresses every output at once (BLINK and BLINK_OFF need a single
output). Switching defaults to output 1, querying to all outputs.

Switching every output off asks for confirmation unless --yes is given.`,
	Example: `  # Show all outputs
  tasmota-cli power

  # State of output 2
  tasmota-cli power get 2

  # Switch output 1 on
  tasmota-cli power on

  # Toggle output 3
  tasmota-cli power toggle 3

  # Switch everything off without asking
  tasmota-cli power off all --yes`,
	Args: cobra.MaximumNArgs(2),
	RunE: runPower,
}

func init() {
	powerCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

// powerRequest is a parsed power command line
type powerRequest struct {
	Query   bool
	Command tasmota.PowerCommand
	Output  tasmota.PowerOutput
}

// parsePowerArgs parses "[action] [output]"
func parsePowerArgs(args []string) (powerRequest, error) {
	req := powerRequest{Query: true, Output: tasmota.AllOutputs}
	if len(args) == 0 {
		return req, nil
	}

	action := strings.ToLower(args[0])
	if action != "get" && action != "state" {
		cmd, err := tasmota.ParsePowerCommand(action)
		if err != nil {
			return req, err
		}
		req.Query = false
		req.Command = cmd
		req.Output = tasmota.Output1
	}

	if len(args) > 1 {
		output, err := tasmota.ParsePowerOutput(args[1])
		if err != nil {
			return req, err
		}
		req.Output = output
	}

	if !req.Query {
		if err := tasmota.ValidatePowerRequest(req.Command, req.Output); err != nil {
			return req, err
		}
	}
	return req, nil
}

// needsConfirmation reports whether a request switches every output off
func (r powerRequest) needsConfirmation() bool {
	return !r.Query && r.Command == tasmota.PowerOff && r.Output == tasmota.AllOutputs
}

func runPower(cmd *cobra.Command, args []string) error {
	req, err := parsePowerArgs(args)
	if err != nil {
		return report("Invalid arguments", err)
	}

	return withDevice(cmd, "Power", func(ctx context.Context, dev *tasmota.Device, t *target) error {
		if req.Query {
			state, err := dev.Power(ctx, req.Output)
			if err != nil {
				return err
			}
			return printPowerState(t, state)
		}

		if req.needsConfirmation() && !assumeYes {
			confirmed := ui.Confirm(os.Stdin, os.Stdout,
				"Switch off all outputs",
				[]string{
					fmt.Sprintf("Every relay on %s will be switched off", t.DisplayName()),
					"Connected loads lose power immediately",
				},
				"Continue?")
			if !confirmed {
				return nil
			}
		}

		on, err := dev.SetPower(ctx, req.Command, req.Output)
		if err != nil {
			return err
		}
		return printPowerResult(t, req, on)
	})
}

// powerRow is one output in a power state
type powerRow struct {
	Output int
	Value  string
}

// sortedPowerRows lists the POWERn keys of a state in output order
func sortedPowerRows(state tasmota.PowerState) []powerRow {
	if state.Output != tasmota.AllOutputs {
		return []powerRow{{Output: int(state.Output), Value: state.Value}}
	}

	var rows []powerRow
	states := state.States()
	for key, value := range states {
		if _, dup := states["POWER1"]; dup && key == "POWER" {
			continue
		}
		n := 1
		if suffix := strings.TrimPrefix(key, "POWER"); suffix != "" {
			parsed, err := strconv.Atoi(suffix)
			if err != nil {
				continue
			}
			n = parsed
		}
		rows = append(rows, powerRow{Output: n, Value: value})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Output < rows[j].Output })
	return rows
}

func outputName(t *target, output int) string {
	name := fmt.Sprintf("Output %d", output)
	if label := t.Label(output); label != "" {
		name += " (" + label + ")"
	}
	return name
}

func printPowerState(t *target, state tasmota.PowerState) error {
	if current.Format == formatJSON {
		out, err := tasmota.FormatJSON(state.Reply)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	rows := sortedPowerRows(state)
	if len(rows) == 0 {
		stdout().PrintWarning("No relay outputs reported",
			ui.Detail{Key: "Device", Value: t.DisplayName()},
			ui.Detail{Key: "Reply", Value: state.Reply.Summary()})
		return nil
	}

	details := make([]ui.Detail, 0, len(rows))
	for _, row := range rows {
		details = append(details, ui.Detail{
			Key:   outputName(t, row.Output),
			Value: ui.RenderPowerValue(row.Value),
		})
	}
	stdout().PrintSuccess("Power state of "+t.DisplayName(), details...)
	return nil
}

func printPowerResult(t *target, req powerRequest, on bool) error {
	if current.Format == formatJSON {
		return printJSON(map[string]any{
			"device":  t.DisplayName(),
			"command": req.Command.Code(),
			"output":  req.Output.String(),
			"on":      on,
		})
	}

	var outputLabel string
	if req.Output == tasmota.AllOutputs {
		outputLabel = "All outputs"
	} else {
		outputLabel = outputName(t, int(req.Output))
	}

	state := "OFF"
	if on {
		state = "ON"
	}
	switch req.Command {
	case tasmota.PowerBlink:
		state = "Blink ON"
	case tasmota.PowerBlinkOff:
		state = "Blink OFF"
	}

	stdout().PrintSuccess("Power "+req.Command.Code()+" sent",
		ui.Detail{Key: "Device", Value: t.DisplayName()},
		ui.Detail{Key: outputLabel, Value: ui.RenderPowerValue(state)})
	return nil
}

// blinkCmd reads or sets blink parameters
var blinkCmd = &cobra.Command{
	Use:   "blink <count|time> [value]",
	Short: "Read or set blink count and blink time",
	Long: `Read or set the blink parameters used by 'power blink'.

  count  Number of power toggles per blink: 0 (many, then restore) or 1-32000
  time   Duration of one toggle in 0.1s steps: 2-3600 (10 = 1 second)

See ` + urls.ControlCommands,
	Example: `  # Show the blink count
  tasmota-cli blink count

  # Blink 5 times
  tasmota-cli blink count 5

  # Half-second toggles
  tasmota-cli blink time 5`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"count", "time"},
	RunE:      runBlink,
}

func runBlink(cmd *cobra.Command, args []string) error {
	what := strings.ToLower(args[0])
	if what != "count" && what != "time" {
		return report("Invalid arguments",
			tasmota.NewInvalidArgumentError("blink parameter must be count or time, got %q", args[0]))
	}

	set := len(args) == 2
	var value int
	if set {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return report("Invalid arguments",
				tasmota.NewInvalidArgumentError("blink %s must be a number, got %q", what, args[1]))
		}
		value = n
		validate := tasmota.ValidateBlinkCount
		if what == "time" {
			validate = tasmota.ValidateBlinkTime
		}
		if err := validate(value); err != nil {
			return report("Invalid arguments", err)
		}
	}

	return withDevice(cmd, "Blink "+what, func(ctx context.Context, dev *tasmota.Device, t *target) error {
		var (
			result int
			err    error
		)
		switch {
		case what == "count" && set:
			result, err = dev.SetBlinkCount(ctx, value)
		case what == "count":
			result, err = dev.BlinkCount(ctx)
		case set:
			result, err = dev.SetBlinkTime(ctx, value)
		default:
			result, err = dev.BlinkTime(ctx)
		}
		if err != nil {
			return err
		}

		key := "BlinkCount"
		display := strconv.Itoa(result)
		if what == "time" {
			key = "BlinkTime"
			display = fmt.Sprintf("%d (%.1fs)", result, float64(result)/10)
		}

		if current.Format == formatJSON {
			return printJSON(map[string]any{"device": t.DisplayName(), key: result})
		}

		title := key
		if set {
			title += " updated"
		}
		stdout().PrintSuccess(title,
			ui.Detail{Key: "Device", Value: t.DisplayName()},
			ui.Detail{Key: key, Value: display})
		return nil
	})
}

// printJSON writes v as indented JSON to stdout
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
