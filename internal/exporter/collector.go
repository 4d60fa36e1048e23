package exporter

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/muurk/tasmota/internal/logging"
	"github.com/muurk/tasmota/internal/tasmota"
)

// PowerReader is the part of *tasmota.Device the collector needs
type PowerReader interface {
	Power(ctx context.Context, output tasmota.PowerOutput) (tasmota.PowerState, error)
	Status(ctx context.Context, kind tasmota.StatusKind) (*tasmota.Reply, error)
}

// Collector queries one device on every scrape and reports its relay states
// as gauges. Nothing is cached between scrapes.
type Collector struct {
	reader  PowerReader
	timeout time.Duration

	up      *prometheus.Desc
	powerOn *prometheus.Desc
	uptime  *prometheus.Desc
}

// NewCollector creates a collector for the device called name.
// timeout bounds the whole scrape; 0 leaves it to the device timeout.
func NewCollector(reader PowerReader, name string, timeout time.Duration) *Collector {
	labels := prometheus.Labels{"device": name}
	return &Collector{
		reader:  reader,
		timeout: timeout,
		up: prometheus.NewDesc("tasmota_up",
			"Whether the last power query to the device succeeded",
			nil, labels),
		powerOn: prometheus.NewDesc("tasmota_power_on",
			"Relay output state (1 = ON, 0 = OFF)",
			[]string{"output"}, labels),
		uptime: prometheus.NewDesc("tasmota_uptime_seconds",
			"Device uptime reported by Status 11",
			nil, labels),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.up
	ch <- c.powerOn
	ch <- c.uptime
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	state, err := c.reader.Power(ctx, tasmota.AllOutputs)
	if err != nil {
		logging.Warn("Scrape failed", zap.String("error", tasmota.ShortMessage(err)), zap.Error(err))
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)

	states := state.States()
	for key, value := range states {
		if _, dup := states["POWER1"]; dup && key == "POWER" {
			continue
		}
		on := 0.0
		if value == "ON" {
			on = 1
		}
		ch <- prometheus.MustNewConstMetric(c.powerOn, prometheus.GaugeValue, on, outputLabel(key))
	}

	reply, err := c.reader.Status(ctx, tasmota.StatusTelePeriod)
	if err != nil {
		logging.Debug("Uptime query failed", zap.Error(err))
		return
	}
	if secs, ok := tasmota.Uptime(reply); ok {
		ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, float64(secs))
	}
}

// outputLabel maps POWER3 to "3"; the bare POWER key of single-relay
// devices is output 1
func outputLabel(key string) string {
	n := strings.TrimPrefix(key, "POWER")
	if n == "" {
		return "1"
	}
	return n
}
