package tasmota

import (
	"sort"
	"strings"
)

// powerRule is how the reply to one POWER command is checked and decoded
type powerRule struct {
	accept []string
	decode func(value string) bool
}

func alwaysTrue(string) bool { return true }

// powerRules maps each command to the reply values the device may answer
// with and the boolean SetPower returns for them.
var powerRules = map[PowerCommand]powerRule{
	PowerOff:      {accept: []string{"OFF"}, decode: func(string) bool { return false }},
	PowerOn:       {accept: []string{"ON"}, decode: alwaysTrue},
	PowerToggle:   {accept: []string{"ON", "OFF"}, decode: func(v string) bool { return v == "ON" }},
	PowerBlink:    {accept: []string{"Blink ON"}, decode: alwaysTrue},
	PowerBlinkOff: {accept: []string{"Blink OFF"}, decode: alwaysTrue},
}

// DecodePowerReply checks value against the rule for cmd and returns the
// decoded state. ok is false when the value is not an accepted answer.
func DecodePowerReply(cmd PowerCommand, value string) (state bool, ok bool) {
	rule, found := powerRules[cmd]
	if !found {
		return false, false
	}
	for _, a := range rule.accept {
		if value == a {
			return rule.decode(value), true
		}
	}
	return false, false
}

// powerValue returns the state string reported for a single output.
// Single-relay devices answer POWER1 under the bare "POWER" key.
func powerValue(reply *Reply, output PowerOutput) (string, bool) {
	if v, ok := reply.String(output.Key()); ok {
		return v, true
	}
	if output == Output1 && !reply.Has(output.Key()) {
		return reply.String("POWER")
	}
	return "", false
}

// powerKeys returns the POWER, POWER1..POWERn keys present in reply
func powerKeys(reply *Reply) []string {
	var keys []string
	for _, k := range reply.Keys() {
		if k == "POWER" || (strings.HasPrefix(k, "POWER") && isDigits(k[len("POWER"):])) {
			keys = append(keys, k)
		}
	}
	return keys
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PowerState is the result of a power query
type PowerState struct {
	// Output that was queried
	Output PowerOutput

	// Value is "ON" or "OFF" for a single output, empty for AllOutputs
	Value string

	// Reply is the device reply, unmodified
	Reply *Reply
}

// On reports whether a single-output query returned "ON"
func (p PowerState) On() bool {
	return p.Value == "ON"
}

// States maps each POWERn key in the reply to its string value
func (p PowerState) States() map[string]string {
	states := make(map[string]string)
	for _, k := range powerKeys(p.Reply) {
		if v, ok := p.Reply.String(k); ok {
			states[k] = v
		}
	}
	return states
}

// Format renders the state as "POWER1=ON POWER2=OFF"
func (p PowerState) Format() string {
	if p.Output != AllOutputs {
		return p.Output.Key() + "=" + p.Value
	}
	states := p.States()
	keys := make([]string, 0, len(states))
	for k := range states {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+states[k])
	}
	return strings.Join(parts, " ")
}
