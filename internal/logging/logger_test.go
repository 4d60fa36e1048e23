package logging

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be silent when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	core := GetLogger().Core()
	if !core.Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
	if core.Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogCommandAndReply(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogCommand("req-1", "POWER1 ON", "http://10.0.0.2")
	LogReply("req-1", "POWER1 ON", 200, 16, 25*time.Millisecond)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["command"] != "POWER1 ON" {
		t.Errorf("command field = %v, want POWER1 ON", fields["command"])
	}
	if entries[1].ContextMap()["status_code"] != int64(200) {
		t.Errorf("status_code field = %v, want 200", entries[1].ContextMap()["status_code"])
	}
}

func TestDumps(t *testing.T) {
	data := []byte("ok\x00")
	if got := hexDump(data); got != "6f6b00" {
		t.Errorf("hexDump() = %q, want 6f6b00", got)
	}
	if got := asciiDump(data); got != "ok." {
		t.Errorf("asciiDump() = %q, want ok.", got)
	}

	long := []byte(strings.Repeat("a", 300))
	if got := hexDump(long); !strings.HasSuffix(got, "...") {
		t.Error("hexDump() should truncate long input")
	}
}
