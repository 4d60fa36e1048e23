package tasmota

import (
	"strings"
	"testing"
	"time"
)

func TestValidateBlinkCount(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{"Valid: 0 (until stopped)", 0, false},
		{"Valid: 1", 1, false},
		{"Valid: max", 32000, false},
		{"Invalid: negative", -1, true},
		{"Invalid: too high", 32001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlinkCount(tt.count)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBlinkCount(%d) error = %v, wantErr %v", tt.count, err, tt.wantErr)
			}
			if err != nil && !IsInvalidArgument(err) {
				t.Errorf("Expected invalid argument, got %T", err)
			}
		})
	}
}

func TestValidateBlinkTime(t *testing.T) {
	tests := []struct {
		name    string
		tenths  int
		wantErr bool
	}{
		{"Valid: min", 2, false},
		{"Valid: 1s", 10, false},
		{"Valid: max", 3600, false},
		{"Invalid: 1", 1, true},
		{"Invalid: 0", 0, true},
		{"Invalid: too high", 3601, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlinkTime(tt.tenths)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBlinkTime(%d) error = %v, wantErr %v", tt.tenths, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFriendlyName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"Valid: empty", "", false},
		{"Valid: normal", "Kitchen Light", false},
		{"Valid: max length (32 chars)", strings.Repeat("a", 32), false},
		{"Valid: 32 multibyte chars", strings.Repeat("é", 32), false},
		{"Invalid: too long (33 chars)", strings.Repeat("a", 33), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFriendlyName(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFriendlyName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePowerRequest(t *testing.T) {
	tests := []struct {
		name    string
		cmd     PowerCommand
		output  PowerOutput
		wantErr bool
	}{
		{"ON single", PowerOn, Output1, false},
		{"ON all", PowerOn, AllOutputs, false},
		{"TOGGLE all", PowerToggle, AllOutputs, false},
		{"BLINK single", PowerBlink, Output2, false},
		{"BLINK all", PowerBlink, AllOutputs, true},
		{"BLINK_OFF all", PowerBlinkOff, AllOutputs, true},
		{"bad command", PowerCommand(42), Output1, true},
		{"bad output", PowerOn, PowerOutput(12), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePowerRequest(tt.cmd, tt.output)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePowerRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsInvalidArgument(err) {
				t.Errorf("Expected invalid argument, got %v", err)
			}
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		wantErr  bool
	}{
		{"both empty", "", "", false},
		{"both set", "admin", "secret", false},
		{"user only", "admin", "", true},
		{"password only", "", "secret", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.user, tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	if err := ValidateTimeout(0); err != nil {
		t.Errorf("ValidateTimeout(0) error = %v, zero selects the default", err)
	}
	if err := ValidateTimeout(5 * time.Second); err != nil {
		t.Errorf("ValidateTimeout(5s) error = %v", err)
	}
	if err := ValidateTimeout(-time.Second); !IsInvalidArgument(err) {
		t.Errorf("ValidateTimeout(-1s) error = %v, want invalid argument", err)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"192.168.1.50", "http://192.168.1.50", false},
		{"192.168.1.50/", "http://192.168.1.50", false},
		{"http://plug.local///", "http://plug.local", false},
		{"https://plug.local:8443/", "https://plug.local:8443", false},
		{"  plug.local  ", "http://plug.local", false},
		{"", "", true},
		{"///", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
