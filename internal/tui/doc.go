// Package tui implements the live relay dashboard behind `tasmota-cli watch`.
//
// Built on Bubble Tea, it follows the Model-Update-View pattern: every
// device call runs in a tea.Cmd and reports back as a message, so the view
// never blocks on the network.
//
// The dashboard polls POWER0 at a fixed interval and lists every POWERn
// output. The selected output can be toggled, switched on or off, or set
// blinking; after each switch the state is queried again.
//
// Framework components:
//   - bubbles/spinner: shown while a request is in flight
//   - bubbles/help and bubbles/key: key bindings and the help footer
//   - lipgloss: layout, shared colors from internal/ui
package tui
