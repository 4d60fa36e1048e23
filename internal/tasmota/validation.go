package tasmota

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinBlinkCount and MaxBlinkCount bound BlinkCount. 0 blinks until stopped.
	MinBlinkCount = 0
	MaxBlinkCount = 32000

	// MinBlinkTime and MaxBlinkTime bound BlinkTime, in 0.1s steps
	MinBlinkTime = 2
	MaxBlinkTime = 3600

	// MaxFriendlyNameLength is the longest name the firmware stores
	MaxFriendlyNameLength = 32
)

// ValidateBlinkCount validates a BlinkCount value (0-32000)
func ValidateBlinkCount(count int) error {
	if count < MinBlinkCount || count > MaxBlinkCount {
		return NewInvalidArgumentError("blink count must be %d-%d, got %d", MinBlinkCount, MaxBlinkCount, count)
	}
	return nil
}

// ValidateBlinkTime validates a BlinkTime value (2-3600, tenths of a second)
func ValidateBlinkTime(tenths int) error {
	if tenths < MinBlinkTime || tenths > MaxBlinkTime {
		return NewInvalidArgumentError("blink time must be %d-%d, got %d", MinBlinkTime, MaxBlinkTime, tenths)
	}
	return nil
}

// ValidateFriendlyName checks the name fits the firmware's 32 character limit
func ValidateFriendlyName(name string) error {
	if n := utf8.RuneCountInString(name); n > MaxFriendlyNameLength {
		return NewInvalidArgumentError("friendly name too long (max %d chars): %d chars", MaxFriendlyNameLength, n)
	}
	return nil
}

// ValidatePowerOutput rejects outputs outside AllOutputs..Output8
func ValidatePowerOutput(output PowerOutput) error {
	if !output.Valid() {
		return NewInvalidArgumentError("received invalid value for output: %d", int(output))
	}
	return nil
}

// ValidateFriendlyNameOutput rejects outputs outside Name1..Name8
func ValidateFriendlyNameOutput(output FriendlyNameOutput) error {
	if !output.Valid() {
		return NewInvalidArgumentError("received invalid value for output: %d", int(output))
	}
	return nil
}

// ValidateStatusKind rejects unknown status kinds
func ValidateStatusKind(kind StatusKind) error {
	if !kind.Valid() {
		return NewInvalidArgumentError("received invalid value for status kind: %d", int(kind))
	}
	return nil
}

// ValidatePowerRequest validates a power command against its output.
// BLINK and BLINK_OFF only apply to a single output.
func ValidatePowerRequest(cmd PowerCommand, output PowerOutput) error {
	if !cmd.Valid() {
		return NewInvalidArgumentError("received invalid value for power command: %d", int(cmd))
	}
	if err := ValidatePowerOutput(output); err != nil {
		return err
	}
	if (cmd == PowerBlink || cmd == PowerBlinkOff) && output == AllOutputs {
		return NewInvalidArgumentError("power command %s can only be sent to a specific output, not all", cmd)
	}
	return nil
}

// ValidateCredentials requires username and password to be both set or both empty
func ValidateCredentials(username, password string) error {
	if (username == "") != (password == "") {
		return NewInvalidArgumentError("username and password must either be both set or both empty")
	}
	return nil
}

// ValidateTimeout rejects negative timeouts. Zero selects DefaultTimeout.
func ValidateTimeout(timeout time.Duration) error {
	if timeout < 0 {
		return NewInvalidArgumentError("timeout must be positive, got %s", timeout)
	}
	return nil
}

// NormalizeURL strips trailing slashes and defaults the scheme to http://
func NormalizeURL(raw string) (string, error) {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		return "", NewInvalidArgumentError("device URL cannot be empty")
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "http://" + u
	}
	return u, nil
}
