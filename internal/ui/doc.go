// Package ui provides terminal output components for the tasmota-cli commands.
//
// Components follow a "run once and exit" pattern: a command talks to the
// device, then renders its outcome with Lipgloss and exits.
//
//   - Header: banner with the title, the device command and parameters
//   - Result: success, warning and failure boxes; failures carry
//     troubleshooting tips
//   - Confirm: y/N prompt in a warning box for disruptive operations
//   - PromptPassword: reads the web password without echo (x/term)
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintSuccess("Output 1 switched on",
//	    ui.Detail{Key: "Device", Value: d.URL()},
//	    ui.Detail{Key: "POWER1", Value: ui.RenderPowerValue("ON")},
//	)
//
// # Logging Integration
//
// Logging is controlled via TASMOTA_LOG_LEVEL or --log-level. When unset,
// zap logging is silent so that only the curated UI output is shown.
package ui
