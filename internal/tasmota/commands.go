package tasmota

import (
	"context"
	"fmt"
	"strings"
)

// SendRaw sends a caller-built command and returns the reply unchecked
func (d *Device) SendRaw(ctx context.Context, command string) (*Reply, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, NewInvalidArgumentError("command cannot be empty")
	}
	return d.sender.Send(ctx, command)
}

// BlinkCount returns the number of power toggles a BLINK performs
func (d *Device) BlinkCount(ctx context.Context) (int, error) {
	return d.getInt(ctx, "BlinkCount")
}

// SetBlinkCount sets the number of power toggles a BLINK performs.
// 0 blinks many times before restoring the power state; 1..32000 is an
// exact count.
func (d *Device) SetBlinkCount(ctx context.Context, count int) (int, error) {
	if err := ValidateBlinkCount(count); err != nil {
		return 0, err
	}
	return d.setInt(ctx, "BlinkCount", count)
}

// BlinkTime returns the duration of one blink toggle in 0.1s steps
func (d *Device) BlinkTime(ctx context.Context) (int, error) {
	return d.getInt(ctx, "BlinkTime")
}

// SetBlinkTime sets the duration of one blink toggle, 2..3600 in 0.1s
// steps (10 = 1s).
func (d *Device) SetBlinkTime(ctx context.Context, tenths int) (int, error) {
	if err := ValidateBlinkTime(tenths); err != nil {
		return 0, err
	}
	return d.setInt(ctx, "BlinkTime", tenths)
}

func (d *Device) getInt(ctx context.Context, key string) (int, error) {
	reply, err := d.sender.Send(ctx, key)
	if err != nil {
		return 0, err
	}
	v, ok := reply.Int(key)
	if !ok {
		return 0, NewReplyError(key, reply)
	}
	return v, nil
}

func (d *Device) setInt(ctx context.Context, key string, value int) (int, error) {
	cmd := fmt.Sprintf("%s %d", key, value)
	reply, err := d.sender.Send(ctx, cmd)
	if err != nil {
		return 0, err
	}
	if v, ok := reply.Int(key); !ok || v != value {
		return 0, NewReplyError(cmd, reply)
	}
	return value, nil
}

// Power queries the power state of an output.
//
// For a single output the reply must say "ON" or "OFF". For AllOutputs the
// reply is returned unmodified in PowerState.Reply without any check.
func (d *Device) Power(ctx context.Context, output PowerOutput) (PowerState, error) {
	if err := ValidatePowerOutput(output); err != nil {
		return PowerState{}, err
	}

	cmd := "POWER" + output.Code()
	reply, err := d.sender.Send(ctx, cmd)
	if err != nil {
		return PowerState{}, err
	}

	state := PowerState{Output: output, Reply: reply}
	if output == AllOutputs {
		return state, nil
	}

	v, ok := powerValue(reply, output)
	if !ok || (v != "ON" && v != "OFF") {
		return PowerState{}, NewReplyError(cmd, reply)
	}
	state.Value = v
	return state, nil
}

// SetPower controls the power state of an output (this also restarts PulseTime).
//
// The returned bool is the resulting state for OFF (false), ON (true) and
// TOGGLE (true if now on). BLINK and BLINK_OFF return true once the device
// acknowledges them; they are only valid for a single output.
//
// For AllOutputs every POWERn key in the reply must carry an accepted
// value; TOGGLE then returns true only if all outputs are on.
func (d *Device) SetPower(ctx context.Context, cmd PowerCommand, output PowerOutput) (bool, error) {
	if err := ValidatePowerRequest(cmd, output); err != nil {
		return false, err
	}

	command := "POWER" + output.Code() + " " + cmd.Code()
	reply, err := d.sender.Send(ctx, command)
	if err != nil {
		return false, err
	}

	if output != AllOutputs {
		v, ok := powerValue(reply, output)
		if !ok {
			return false, NewReplyError(command, reply)
		}
		state, ok := DecodePowerReply(cmd, v)
		if !ok {
			return false, NewReplyError(command, reply)
		}
		return state, nil
	}

	keys := powerKeys(reply)
	if len(keys) == 0 {
		return false, NewReplyError(command, reply)
	}
	result := true
	for _, k := range keys {
		v, _ := reply.String(k)
		state, ok := DecodePowerReply(cmd, v)
		if !ok {
			return false, NewReplyError(command, reply)
		}
		result = result && state
	}
	return result, nil
}

// FriendlyName returns the friendly name of an output
func (d *Device) FriendlyName(ctx context.Context, output FriendlyNameOutput) (string, error) {
	if err := ValidateFriendlyNameOutput(output); err != nil {
		return "", err
	}

	cmd := "FriendlyName" + output.Code()
	reply, err := d.sender.Send(ctx, cmd)
	if err != nil {
		return "", err
	}
	name, ok := reply.String(output.Key())
	if !ok {
		return "", NewReplyError(cmd, reply)
	}
	return name, nil
}

// SetFriendlyName sets the friendly name of an output (max 32 characters).
// The firmware treats the name "1" as a reset to its default, in which case
// the echoed name differs and the call fails with a command error.
func (d *Device) SetFriendlyName(ctx context.Context, output FriendlyNameOutput, name string) (string, error) {
	if err := ValidateFriendlyNameOutput(output); err != nil {
		return "", err
	}
	if err := ValidateFriendlyName(name); err != nil {
		return "", err
	}

	cmd := "FriendlyName" + output.Code() + " " + name
	reply, err := d.sender.Send(ctx, cmd)
	if err != nil {
		return "", err
	}
	if got, ok := reply.String(output.Key()); !ok || got != name {
		return "", NewReplyError(cmd, reply)
	}
	return name, nil
}

// Status returns status information of the given kind. The reply's first
// key must contain "Status" (Status, StatusPRM, StatusFWR, ...).
func (d *Device) Status(ctx context.Context, kind StatusKind) (*Reply, error) {
	if err := ValidateStatusKind(kind); err != nil {
		return nil, err
	}

	cmd := StatusCommand(kind)
	reply, err := d.sender.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	first, ok := reply.FirstKey()
	if !ok || !strings.Contains(first, "Status") {
		return nil, NewReplyError(cmd, reply)
	}
	return reply, nil
}

// StatusCommand returns the command text for a status kind
func StatusCommand(kind StatusKind) string {
	if code := kind.Code(); code != "" {
		return "Status " + code
	}
	return "Status"
}

// Uptime returns the device uptime in seconds from a StatusTelePeriod or
// StatusAll reply, if present
func Uptime(reply *Reply) (int, bool) {
	if v, ok := reply.Get("StatusSTS"); ok {
		if m, ok := v.(map[string]any); ok {
			return NewReply(m).Int("UptimeSec")
		}
	}
	return reply.Int("UptimeSec")
}
