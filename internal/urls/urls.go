package urls

// Tasmota documentation, https://tasmota.github.io/docs/

// CommandReference lists every console command and its arguments.
// Anything in it can be sent with 'tasmota-cli raw'.
const CommandReference = "https://tasmota.github.io/docs/Commands/"

// ControlCommands covers Power, Blink, BlinkCount, BlinkTime and PulseTime.
const ControlCommands = "https://tasmota.github.io/docs/Commands/#control"

// WebCommands covers WebPassword and WebServer, which decide whether the
// HTTP command API answers and whether it needs credentials.
const WebCommands = "https://tasmota.github.io/docs/Commands/#wi-fi"

// StatusCommands describes the Status categories.
const StatusCommands = "https://tasmota.github.io/docs/Commands/#management"

// Troubleshooting covers devices that drop off WiFi or stop responding.
const Troubleshooting = "https://tasmota.github.io/docs/Troubleshooting/"
