package exporter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/muurk/tasmota/internal/tasmota"
)

// fakeReader serves canned replies
type fakeReader struct {
	power    string
	status   string
	powerErr error
	calls    int
}

func (f *fakeReader) Power(ctx context.Context, output tasmota.PowerOutput) (tasmota.PowerState, error) {
	f.calls++
	if f.powerErr != nil {
		return tasmota.PowerState{}, f.powerErr
	}
	reply, err := tasmota.ParseReply([]byte(f.power))
	if err != nil {
		return tasmota.PowerState{}, err
	}
	return tasmota.PowerState{Output: output, Reply: reply}, nil
}

func (f *fakeReader) Status(ctx context.Context, kind tasmota.StatusKind) (*tasmota.Reply, error) {
	if f.status == "" {
		return nil, errors.New("no status")
	}
	return tasmota.ParseReply([]byte(f.status))
}

func TestCollector(t *testing.T) {
	reader := &fakeReader{
		power:  `{"POWER1":"ON","POWER2":"OFF"}`,
		status: `{"StatusSTS":{"UptimeSec":3600,"POWER1":"ON"}}`,
	}
	c := NewCollector(reader, "kitchen", 0)

	expected := `
# HELP tasmota_power_on Relay output state (1 = ON, 0 = OFF)
# TYPE tasmota_power_on gauge
tasmota_power_on{device="kitchen",output="1"} 1
tasmota_power_on{device="kitchen",output="2"} 0
# HELP tasmota_up Whether the last power query to the device succeeded
# TYPE tasmota_up gauge
tasmota_up{device="kitchen"} 1
# HELP tasmota_uptime_seconds Device uptime reported by Status 11
# TYPE tasmota_uptime_seconds gauge
tasmota_uptime_seconds{device="kitchen"} 3600
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestCollector_SingleRelay(t *testing.T) {
	reader := &fakeReader{power: `{"POWER":"ON"}`}
	c := NewCollector(reader, "porch", 0)

	expected := `
# HELP tasmota_power_on Relay output state (1 = ON, 0 = OFF)
# TYPE tasmota_power_on gauge
tasmota_power_on{device="porch",output="1"} 1
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected), "tasmota_power_on"); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestCollector_BarePowerWithIndexedKeys(t *testing.T) {
	reader := &fakeReader{power: `{"POWER":"OFF","POWER1":"ON","POWER2":"OFF"}`}
	c := NewCollector(reader, "kitchen", 0)

	expected := `
# HELP tasmota_power_on Relay output state (1 = ON, 0 = OFF)
# TYPE tasmota_power_on gauge
tasmota_power_on{device="kitchen",output="1"} 1
tasmota_power_on{device="kitchen",output="2"} 0
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected), "tasmota_power_on"); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestCollector_Down(t *testing.T) {
	reader := &fakeReader{powerErr: tasmota.NewConnectionError("failed to send command", errors.New("refused"))}
	c := NewCollector(reader, "kitchen", 0)

	expected := `
# HELP tasmota_up Whether the last power query to the device succeeded
# TYPE tasmota_up gauge
tasmota_up{device="kitchen"} 0
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestCollector_QueriesOncePerScrape(t *testing.T) {
	reader := &fakeReader{power: `{"POWER1":"ON"}`}
	c := NewCollector(reader, "kitchen", 0)

	if n := testutil.CollectAndCount(c); n != 2 {
		t.Errorf("CollectAndCount() = %d, want 2 (up + one output)", n)
	}
	if reader.calls != 1 {
		t.Errorf("Power() called %d times, want 1", reader.calls)
	}
}

func TestHandler(t *testing.T) {
	reader := &fakeReader{power: `{"POWER1":"OFF"}`}
	server := httptest.NewServer(Handler(NewCollector(reader, "kitchen", 0)))
	defer server.Close()

	resp, err := http.Get(server.URL + MetricsPath)
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	for _, want := range []string{
		`tasmota_up{device="kitchen"} 1`,
		`tasmota_power_on{device="kitchen",output="1"} 0`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}

	health, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("/health status = %d, want 200", health.StatusCode)
	}
}

func TestOutputLabel(t *testing.T) {
	tests := map[string]string{"POWER": "1", "POWER1": "1", "POWER8": "8"}
	for in, want := range tests {
		if got := outputLabel(in); got != want {
			t.Errorf("outputLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
