package tasmota

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxOutputs is the number of relay outputs addressable through POWER<n> and FriendlyName<n>
const MaxOutputs = 8

// PowerOutput selects which relay a POWER command addresses.
// AllOutputs is encoded as 0 and addresses every relay at once.
type PowerOutput int

const (
	AllOutputs PowerOutput = iota
	Output1
	Output2
	Output3
	Output4
	Output5
	Output6
	Output7
	Output8
)

// Valid reports whether o is a known output
func (o PowerOutput) Valid() bool {
	return o >= AllOutputs && o <= MaxOutputs
}

// Code returns the wire encoding appended to POWER
func (o PowerOutput) Code() string {
	return strconv.Itoa(int(o))
}

// Key returns the reply key the device answers under for this output
func (o PowerOutput) Key() string {
	return "POWER" + o.Code()
}

func (o PowerOutput) String() string {
	if o == AllOutputs {
		return "all"
	}
	return o.Code()
}

// ParsePowerOutput accepts "all", "0" or an output number 1..MaxOutputs
func ParsePowerOutput(s string) (PowerOutput, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "all" {
		return AllOutputs, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !PowerOutput(n).Valid() {
		return 0, NewInvalidArgumentError("output must be 'all' or 1-%d, got %q", MaxOutputs, s)
	}
	return PowerOutput(n), nil
}

// PowerCommand is the argument of a POWER command
type PowerCommand int

const (
	PowerOff PowerCommand = iota
	PowerOn
	PowerToggle
	PowerBlink
	PowerBlinkOff
)

var powerCommandCodes = map[PowerCommand]string{
	PowerOff:      "OFF",
	PowerOn:       "ON",
	PowerToggle:   "TOGGLE",
	PowerBlink:    "BLINK",
	PowerBlinkOff: "BLINK_OFF",
}

// Valid reports whether c is a known power command
func (c PowerCommand) Valid() bool {
	_, ok := powerCommandCodes[c]
	return ok
}

// Code returns the wire encoding of the command
func (c PowerCommand) Code() string {
	return powerCommandCodes[c]
}

func (c PowerCommand) String() string {
	if code, ok := powerCommandCodes[c]; ok {
		return code
	}
	return fmt.Sprintf("PowerCommand(%d)", int(c))
}

// ParsePowerCommand accepts the wire names (ON, OFF, ...) case-insensitively,
// with '-' allowed in place of '_'.
func ParsePowerCommand(s string) (PowerCommand, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for c, code := range powerCommandCodes {
		if code == norm {
			return c, nil
		}
	}
	return 0, NewInvalidArgumentError("power command must be one of OFF, ON, TOGGLE, BLINK, BLINK_OFF, got %q", s)
}

// FriendlyNameOutput selects which output's friendly name is read or written
type FriendlyNameOutput int

const (
	Name1 FriendlyNameOutput = iota + 1
	Name2
	Name3
	Name4
	Name5
	Name6
	Name7
	Name8
)

// Valid reports whether o is a known output
func (o FriendlyNameOutput) Valid() bool {
	return o >= Name1 && o <= MaxOutputs
}

// Code returns the wire encoding appended to FriendlyName
func (o FriendlyNameOutput) Code() string {
	return strconv.Itoa(int(o))
}

// Key returns the reply key the device answers under for this output
func (o FriendlyNameOutput) Key() string {
	return "FriendlyName" + o.Code()
}

func (o FriendlyNameOutput) String() string {
	return o.Code()
}

// ParseFriendlyNameOutput accepts an output number 1..MaxOutputs
func ParseFriendlyNameOutput(s string) (FriendlyNameOutput, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !FriendlyNameOutput(n).Valid() {
		return 0, NewInvalidArgumentError("friendly name output must be 1-%d, got %q", MaxOutputs, s)
	}
	return FriendlyNameOutput(n), nil
}

// StatusKind selects the category returned by the Status command
type StatusKind int

const (
	StatusAbbreviated StatusKind = iota
	StatusAll
	StatusDeviceParameters
	StatusFirmware
	StatusLoggingAndTelemetry
	StatusMemory
	StatusNetwork
	StatusMQTT
	StatusTime
	StatusConnectedSensor
	StatusPowerThresholds
	StatusTelePeriod
	StatusStackDump
)

type statusInfo struct {
	name string
	code string // empty for the abbreviated form
	desc string
}

var statusKinds = map[StatusKind]statusInfo{
	StatusAbbreviated:         {"abbreviated", "", "abbreviated status information"},
	StatusAll:                 {"all", "0", "all status information"},
	StatusDeviceParameters:    {"device", "1", "device parameters"},
	StatusFirmware:            {"firmware", "2", "firmware information"},
	StatusLoggingAndTelemetry: {"logging", "3", "logging and telemetry information"},
	StatusMemory:              {"memory", "4", "memory information"},
	StatusNetwork:             {"network", "5", "network information"},
	StatusMQTT:                {"mqtt", "6", "MQTT information"},
	StatusTime:                {"time", "7", "time information"},
	StatusConnectedSensor:     {"sensor", "10", "connected sensor information"},
	StatusPowerThresholds:     {"power", "9", "power thresholds (power monitoring modules only)"},
	StatusTelePeriod:          {"state", "11", "TelePeriod state message"},
	StatusStackDump:           {"stack", "12", "call stack saved after a crash"},
}

// StatusKinds lists every status kind in declaration order
func StatusKinds() []StatusKind {
	kinds := make([]StatusKind, 0, len(statusKinds))
	for k := StatusAbbreviated; k <= StatusStackDump; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is a known status kind
func (k StatusKind) Valid() bool {
	_, ok := statusKinds[k]
	return ok
}

// Code returns the numeric argument of the Status command.
// The abbreviated kind has no argument and returns "".
func (k StatusKind) Code() string {
	return statusKinds[k].code
}

// Description returns what the device reports for this kind
func (k StatusKind) Description() string {
	return statusKinds[k].desc
}

func (k StatusKind) String() string {
	if info, ok := statusKinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("StatusKind(%d)", int(k))
}

// ParseStatusKind accepts a kind name (e.g. "network") or its numeric code
func ParseStatusKind(s string) (StatusKind, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return StatusAbbreviated, nil
	}
	for k, info := range statusKinds {
		if s == info.name || (info.code != "" && s == info.code) {
			return k, nil
		}
	}
	return 0, NewInvalidArgumentError("unknown status kind %q", s)
}
