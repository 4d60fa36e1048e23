package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/tasmota/internal/exporter"
	"github.com/muurk/tasmota/internal/logging"
	"github.com/muurk/tasmota/internal/tasmota"
	"github.com/muurk/tasmota/internal/tui"
	"github.com/muurk/tasmota/internal/ui"
)

// Long-running command flags
var (
	listenAddr    string
	watchInterval time.Duration
)

func init() {
	rootCmd.AddCommand(exporterCmd)
	rootCmd.AddCommand(watchCmd)

	exporterCmd.Flags().StringVar(&listenAddr, "listen", ":9710", "Address to serve metrics on")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", tui.DefaultInterval, "Polling interval")
}

// exporterCmd serves relay state as Prometheus metrics
var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Serve relay state as Prometheus metrics",
	Long: `Run an HTTP server exposing the device's relay state to Prometheus.

Every scrape of /metrics queries the device once:
  tasmota_up               1 if the power query succeeded
  tasmota_power_on{output} 1 for ON, 0 for OFF
  tasmota_uptime_seconds   device uptime from Status 11

Command counters (tasmota_commands_total) and Go runtime metrics are
included. /health answers 200 while the server runs.`,
	Example: `  # Export the default device on :9710
  tasmota-cli exporter

  # Export a named device on a custom port
  tasmota-cli exporter --device kitchen --listen :9100`,
	Args: cobra.NoArgs,
	RunE: runExporter,
}

func runExporter(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dev, t, err := connect(ctx)
	if err != nil {
		return report("Connection failed", err)
	}

	collector := exporter.NewCollector(dev, t.DisplayName(), dev.Timeout())

	stdout().PrintSuccess("Exporter running",
		ui.Detail{Key: "Device", Value: t.DisplayName()},
		ui.Detail{Key: "Metrics", Value: "http://" + displayAddr(listenAddr) + exporter.MetricsPath})

	if err := exporter.Serve(ctx, listenAddr, exporter.Handler(collector)); err != nil {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	logging.Info("Exporter stopped", zap.String("device", t.DisplayName()))
	return nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// watchCmd runs the live dashboard
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live relay dashboard",
	Long: `Show the state of every output and refresh it periodically.

Keys:
  ↑/↓ (k/j)   select output
  enter, t    toggle
  o / f       on / off
  b           blink
  r           refresh now
  ?           more help
  q           quit`,
	Example: `  tasmota-cli watch --device kitchen
  tasmota-cli watch --url 192.168.1.50 --interval 2s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return fmt.Errorf("watch needs an interactive terminal")
	}

	dev, t, err := connect(commandContext(cmd))
	if err != nil {
		return report("Connection failed", err)
	}

	labels := make(map[int]string)
	for output := 1; output <= tasmota.MaxOutputs; output++ {
		if label := t.Label(output); label != "" {
			labels[output] = label
		}
	}

	if err := tui.RunWatch(dev, tui.WatchConfig{
		Name:     t.DisplayName(),
		URL:      dev.URL(),
		Interval: watchInterval,
		Labels:   labels,
	}); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
