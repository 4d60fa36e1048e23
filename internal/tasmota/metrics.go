package tasmota

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tasmota_commands_total",
		Help: "The total number of commands sent to Tasmota devices",
	}, []string{"command", "outcome"})

	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tasmota_command_duration_seconds",
		Help:    "Round trip time of Tasmota commands",
		Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"command"})
)

// Outcome labels for tasmota_commands_total
const (
	outcomeOK         = "ok"
	outcomeConnection = "connection_error"
	outcomeHTTP       = "http_error"
	outcomeDecode     = "decode_error"
)

// commandLabel reduces a command to its name without output index or
// argument, keeping label cardinality bounded ("POWER1 ON" -> "power").
func commandLabel(command string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(command), " ")
	name = strings.TrimRight(name, "0123456789")
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(name)
}
