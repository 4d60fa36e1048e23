package main

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/muurk/tasmota/internal/config"
	"github.com/muurk/tasmota/internal/tasmota"
)

func TestParsePowerArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    powerRequest
		wantErr bool
	}{
		{"no args queries all", nil, powerRequest{Query: true, Output: tasmota.AllOutputs}, false},
		{"get one", []string{"get", "2"}, powerRequest{Query: true, Output: tasmota.Output2}, false},
		{"on defaults to output 1", []string{"on"}, powerRequest{Command: tasmota.PowerOn, Output: tasmota.Output1}, false},
		{"toggle output", []string{"TOGGLE", "3"}, powerRequest{Command: tasmota.PowerToggle, Output: tasmota.Output3}, false},
		{"off all", []string{"off", "all"}, powerRequest{Command: tasmota.PowerOff, Output: tasmota.AllOutputs}, false},
		{"blink-off", []string{"blink-off", "1"}, powerRequest{Command: tasmota.PowerBlinkOff, Output: tasmota.Output1}, false},
		{"blink all rejected", []string{"blink", "all"}, powerRequest{}, true},
		{"unknown action", []string{"dim"}, powerRequest{}, true},
		{"output out of range", []string{"on", "9"}, powerRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePowerArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePowerArgs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if tt.wantErr {
				if !tasmota.IsInvalidArgument(err) {
					t.Errorf("error = %v, want invalid argument", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("parsePowerArgs(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestNeedsConfirmation(t *testing.T) {
	tests := []struct {
		req  powerRequest
		want bool
	}{
		{powerRequest{Command: tasmota.PowerOff, Output: tasmota.AllOutputs}, true},
		{powerRequest{Command: tasmota.PowerOff, Output: tasmota.Output1}, false},
		{powerRequest{Command: tasmota.PowerOn, Output: tasmota.AllOutputs}, false},
		{powerRequest{Query: true, Output: tasmota.AllOutputs}, false},
	}
	for _, tt := range tests {
		if got := tt.req.needsConfirmation(); got != tt.want {
			t.Errorf("%+v.needsConfirmation() = %v, want %v", tt.req, got, tt.want)
		}
	}
}

func TestSortedPowerRows(t *testing.T) {
	reply, err := tasmota.ParseReply([]byte(`{"POWER2":"OFF","POWER1":"ON","Other":"x"}`))
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}
	rows := sortedPowerRows(tasmota.PowerState{Output: tasmota.AllOutputs, Reply: reply})

	want := []powerRow{{1, "ON"}, {2, "OFF"}}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v, want %+v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}

	mixed, err := tasmota.ParseReply([]byte(`{"POWER":"OFF","POWER1":"ON"}`))
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}
	rows = sortedPowerRows(tasmota.PowerState{Output: tasmota.AllOutputs, Reply: mixed})
	if len(rows) != 1 || rows[0] != (powerRow{1, "ON"}) {
		t.Errorf("rows with POWER and POWER1 = %+v, want [{1 ON}]", rows)
	}

	single := sortedPowerRows(tasmota.PowerState{Output: tasmota.Output3, Value: "ON"})
	if len(single) != 1 || single[0] != (powerRow{3, "ON"}) {
		t.Errorf("single-output rows = %+v", single)
	}
}

func newTestRegistry(t *testing.T) *config.Registry {
	t.Helper()
	reg := config.NewRegistry()
	if _, err := reg.AddDevice("kitchen", "192.168.1.50", "owner", 5); err != nil {
		t.Fatalf("AddDevice() error = %v", err)
	}
	if _, err := reg.AddDevice("porch", "http://porch.local", "", 0); err != nil {
		t.Fatalf("AddDevice() error = %v", err)
	}
	return reg
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name      string
		settings  settings
		password  string
		setup     func(*config.Registry)
		wantName  string
		wantURL   string
		wantUser  string
		wantTO    time.Duration
		wantError bool
	}{
		{
			name:     "url without password sends no credentials",
			settings: settings{URL: "10.0.0.2", User: "bob"},
			wantURL:  "10.0.0.2",
		},
		{
			name:     "url with password defaults username",
			settings: settings{URL: "10.0.0.2"},
			password: "secret",
			wantURL:  "10.0.0.2",
			wantUser: "admin",
		},
		{
			name:     "named device",
			settings: settings{Device: "kitchen"},
			password: "secret",
			wantName: "kitchen",
			wantURL:  "http://192.168.1.50",
			wantUser: "owner",
			wantTO:   5 * time.Second,
		},
		{
			name:     "flag user and timeout override registry",
			settings: settings{Device: "kitchen", User: "alice", Timeout: 2 * time.Second},
			password: "secret",
			wantName: "kitchen",
			wantURL:  "http://192.168.1.50",
			wantUser: "alice",
			wantTO:   2 * time.Second,
		},
		{
			name:     "registry default",
			setup:    func(r *config.Registry) { r.Preferences.DefaultDevice = "porch" },
			wantName: "porch",
			wantURL:  "http://porch.local",
		},
		{
			name:     "only device",
			setup:    func(r *config.Registry) { r.RemoveDevice("kitchen") },
			wantName: "porch",
			wantURL:  "http://porch.local",
		},
		{
			name:      "ambiguous",
			wantError: true,
		},
		{
			name:      "unknown device",
			settings:  settings{Device: "garage"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newTestRegistry(t)
			if tt.setup != nil {
				tt.setup(reg)
			}

			got, err := resolveTarget(tt.settings, reg, tt.password)
			if (err != nil) != tt.wantError {
				t.Fatalf("resolveTarget() error = %v, wantError %v", err, tt.wantError)
			}
			if tt.wantError {
				if !tasmota.IsInvalidArgument(err) {
					t.Errorf("error = %v, want invalid argument", err)
				}
				return
			}

			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Config.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", got.Config.URL, tt.wantURL)
			}
			if got.Config.Username != tt.wantUser {
				t.Errorf("Username = %q, want %q", got.Config.Username, tt.wantUser)
			}
			if got.Config.Password != tt.password {
				t.Errorf("Password = %q, want %q", got.Config.Password, tt.password)
			}
			if got.Config.Timeout != tt.wantTO {
				t.Errorf("Timeout = %v, want %v", got.Config.Timeout, tt.wantTO)
			}
		})
	}
}

func TestTargetLabels(t *testing.T) {
	reg := newTestRegistry(t)
	if err := reg.SetOutputLabel("kitchen", 2, "Kettle", ""); err != nil {
		t.Fatalf("SetOutputLabel() error = %v", err)
	}

	named, err := resolveTarget(settings{Device: "kitchen"}, reg, "")
	if err != nil {
		t.Fatalf("resolveTarget() error = %v", err)
	}
	if got := outputName(named, 2); got != "Output 2 (Kettle)" {
		t.Errorf("outputName(2) = %q", got)
	}
	if got := outputName(named, 1); got != "Output 1" {
		t.Errorf("outputName(1) = %q", got)
	}
	if named.DisplayName() != "kitchen" {
		t.Errorf("DisplayName() = %q, want kitchen", named.DisplayName())
	}

	adhoc, _ := resolveTarget(settings{URL: "10.0.0.2"}, reg, "")
	if adhoc.Label(2) != "" {
		t.Errorf("ad-hoc target has label %q", adhoc.Label(2))
	}
	if adhoc.DisplayName() != "10.0.0.2" {
		t.Errorf("DisplayName() = %q, want 10.0.0.2", adhoc.DisplayName())
	}
}

func TestLoadSettings_EnvAndFlags(t *testing.T) {
	t.Setenv("TASMOTA_URL", "10.0.0.9")
	t.Setenv("TASMOTA_PASSWORD", "from-env")
	t.Setenv("TASMOTA_ASK_PASSWORD", "true")
	t.Setenv("TASMOTA_TIMEOUT", "7s")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("url", "", "")
	flags.String("device", "", "")
	flags.String("user", "", "")
	flags.String("password", "", "")
	flags.Bool("ask-password", false, "")
	flags.Duration("timeout", 0, "")
	flags.String("format", formatDetailed, "")
	flags.String("log-level", "", "")
	flags.String("config", "", "")
	if err := flags.Parse([]string{"--password", "from-flag", "--format", "JSON"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	vip := viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(envKeyReplacer())
	vip.AutomaticEnv()
	if err := vip.BindPFlags(flags); err != nil {
		t.Fatalf("BindPFlags() error = %v", err)
	}

	s := loadSettings(vip)
	if s.URL != "10.0.0.9" {
		t.Errorf("URL = %q, want value from environment", s.URL)
	}
	if s.Password != "from-flag" {
		t.Errorf("Password = %q, want flag to win over environment", s.Password)
	}
	if !s.AskPassword {
		t.Error("AskPassword = false, want true from TASMOTA_ASK_PASSWORD")
	}
	if s.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v, want 7s", s.Timeout)
	}
	if s.Format != formatJSON {
		t.Errorf("Format = %q, want %q", s.Format, formatJSON)
	}
}

func TestListDevices(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Preferences.DefaultDevice = "porch"
	if err := reg.SetOutputLabel("kitchen", 1, "Lamp", ""); err != nil {
		t.Fatalf("SetOutputLabel() error = %v", err)
	}
	reg.MarkSeen("kitchen")

	listings := listDevices(reg)
	if len(listings) != 2 {
		t.Fatalf("len(listings) = %d, want 2", len(listings))
	}

	kitchen, porch := listings[0], listings[1]
	if kitchen.Name != "kitchen" || porch.Name != "porch" {
		t.Errorf("order = %s, %s; want kitchen, porch", kitchen.Name, porch.Name)
	}
	if kitchen.Default || !porch.Default {
		t.Errorf("Default = %v, %v; want false, true", kitchen.Default, porch.Default)
	}
	if kitchen.Timeout != "5s" || porch.Timeout != "" {
		t.Errorf("Timeout = %q, %q; want 5s and empty", kitchen.Timeout, porch.Timeout)
	}
	if kitchen.LastSeen == nil || porch.LastSeen != nil {
		t.Error("LastSeen set on the wrong device")
	}
	if kitchen.Labels["1"] != "Lamp" {
		t.Errorf("Labels = %v, want 1=Lamp", kitchen.Labels)
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := map[string]string{
		":9710":          "localhost:9710",
		"0.0.0.0:9100":   "0.0.0.0:9100",
		"metrics.lan:80": "metrics.lan:80",
	}
	for in, want := range tests {
		if got := displayAddr(in); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", in, got, want)
		}
	}
}
