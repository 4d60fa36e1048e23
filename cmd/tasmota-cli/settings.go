package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/muurk/tasmota/internal/config"
	"github.com/muurk/tasmota/internal/logging"
	"github.com/muurk/tasmota/internal/tasmota"
	"github.com/muurk/tasmota/internal/ui"
)

// envPrefix is prepended to every flag name to form its environment variable
// (--url is TASMOTA_URL, --ask-password is TASMOTA_ASK_PASSWORD)
const envPrefix = "TASMOTA"

// Output formats
const (
	formatDetailed = "detailed"
	formatJSON     = "json"
)

// errReported marks an error whose failure box was already printed
var errReported = errors.New("error already reported")

// Global connection flags
var (
	flagURL         string
	flagDevice      string
	flagUser        string
	flagPassword    string
	flagAskPassword bool
	flagTimeout     time.Duration
	flagFormat      string
	flagLogLevel    string
	flagConfig      string
)

// vp holds flag values merged with TASMOTA_* environment variables
var vp = viper.New()

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagURL, "url", "", "Device URL or address (e.g. 192.168.1.50)")
	flags.StringVarP(&flagDevice, "device", "d", "", "Device name from the registry")
	flags.StringVarP(&flagUser, "user", "u", "", "Web admin username (default from registry, or admin)")
	flags.StringVarP(&flagPassword, "password", "p", "", "Web admin password")
	flags.BoolVar(&flagAskPassword, "ask-password", false, "Prompt for the web admin password")
	flags.DurationVar(&flagTimeout, "timeout", 0, "Timeout per command (default 30s)")
	flags.StringVar(&flagFormat, "format", formatDetailed, "Output format (detailed, json)")
	flags.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error); silent if unset")
	flags.StringVar(&flagConfig, "config", "", "Registry file (default: OS config dir)")

	vp.SetEnvPrefix(envPrefix)
	vp.SetEnvKeyReplacer(envKeyReplacer())
	vp.AutomaticEnv()
	if err := vp.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("failed to bind flags: %v", err))
	}
}

// envKeyReplacer maps flag names to environment variable suffixes
func envKeyReplacer() *strings.Replacer {
	return strings.NewReplacer("-", "_")
}

// settings is the merged view of flags and environment
type settings struct {
	URL         string
	Device      string
	User        string
	Password    string
	AskPassword bool
	Timeout     time.Duration
	Format      string
	LogLevel    string
	ConfigPath  string
}

func loadSettings(v *viper.Viper) settings {
	return settings{
		URL:         v.GetString("url"),
		Device:      v.GetString("device"),
		User:        v.GetString("user"),
		Password:    v.GetString("password"),
		AskPassword: v.GetBool("ask-password"),
		Timeout:     v.GetDuration("timeout"),
		Format:      strings.ToLower(v.GetString("format")),
		LogLevel:    v.GetString("log-level"),
		ConfigPath:  v.GetString("config"),
	}
}

// current is populated by setup before any command runs
var current settings

// setup loads .env, merges settings and initializes logging
func setup(cmd *cobra.Command, args []string) error {
	dotenvErr := godotenv.Load(".env")

	current = loadSettings(vp)

	if err := logging.Initialize(current.LogLevel); err != nil {
		return err
	}
	if dotenvErr == nil {
		logging.Debug("Loaded .env file")
	}

	switch current.Format {
	case formatDetailed, formatJSON:
	default:
		return fmt.Errorf("unknown output format %q (use detailed or json)", current.Format)
	}
	if current.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", current.Timeout)
	}
	return nil
}

// loadRegistry reads the registry from --config or the default location
func loadRegistry() (*config.Registry, error) {
	if current.ConfigPath != "" {
		return config.LoadRegistryFrom(current.ConfigPath)
	}
	return config.LoadRegistry()
}

// saveRegistry writes the registry back to where loadRegistry read it
func saveRegistry(reg *config.Registry) error {
	if current.ConfigPath != "" {
		return reg.SaveTo(current.ConfigPath)
	}
	return reg.Save()
}

// target is the device a command talks to
type target struct {
	// Name is the registry name, empty for --url
	Name   string
	Entry  *config.Device
	Config tasmota.Config
}

// Label returns the registry label of an output, if any
func (t *target) Label(output int) string {
	if t.Entry == nil {
		return ""
	}
	return t.Entry.OutputLabel(output)
}

// DisplayName returns the registry name or the URL
func (t *target) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Config.URL
}

// resolveTarget picks the device from --url, --device, the registry default
// or the only registered device, in that order
func resolveTarget(s settings, reg *config.Registry, password string) (*target, error) {
	defaultUser := "admin"
	if reg != nil && reg.Preferences != nil && reg.Preferences.DefaultUsername != "" {
		defaultUser = reg.Preferences.DefaultUsername
	}

	if s.URL != "" {
		cfg := tasmota.Config{URL: s.URL, Timeout: s.Timeout}
		if password != "" {
			cfg.Username = s.User
			if cfg.Username == "" {
				cfg.Username = defaultUser
			}
			cfg.Password = password
		}
		return &target{Config: cfg}, nil
	}

	if reg == nil {
		return nil, tasmota.NewInvalidArgumentError("no device specified: use --url or --device")
	}

	name := s.Device
	if name == "" && reg.Preferences != nil {
		name = reg.Preferences.DefaultDevice
	}
	if name == "" {
		names := reg.DeviceNames()
		if len(names) != 1 {
			return nil, tasmota.NewInvalidArgumentError("no device specified: use --url or --device, or register one with 'tasmota-cli devices add'")
		}
		name = names[0]
	}

	entry := reg.GetDevice(name)
	if entry == nil {
		return nil, tasmota.NewInvalidArgumentError("unknown device %q (see 'tasmota-cli devices list')", name)
	}

	cfg := entry.Config(password)
	if password != "" {
		if s.User != "" {
			cfg.Username = s.User
		}
		if cfg.Username == "" {
			cfg.Username = defaultUser
		}
	}
	if s.Timeout > 0 {
		cfg.Timeout = s.Timeout
	}
	return &target{Name: name, Entry: entry, Config: cfg}, nil
}

// resolvePassword returns the password from flags/env, or prompts for it
func resolvePassword(s settings, deviceURL string) (string, error) {
	if s.Password != "" || !s.AskPassword {
		return s.Password, nil
	}
	return ui.PromptPassword(os.Stderr, deviceURL)
}

// connect resolves the target and probes the device. On success a registry
// device gets its LastSeen updated.
func connect(ctx context.Context) (*tasmota.Device, *target, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load device registry: %w", err)
	}

	t, err := resolveTarget(current, reg, "")
	if err != nil {
		return nil, nil, err
	}
	password, err := resolvePassword(current, t.Config.URL)
	if err != nil {
		return nil, nil, err
	}
	if password != "" {
		if t, err = resolveTarget(current, reg, password); err != nil {
			return nil, nil, err
		}
	}

	logging.Debug("Connecting to device",
		zap.String("device", t.DisplayName()),
		zap.Bool("auth", password != ""))

	dev, err := tasmota.Connect(ctx, t.Config)
	if err != nil {
		return nil, t, err
	}

	if t.Name != "" {
		reg.MarkSeen(t.Name)
		if err := saveRegistry(reg); err != nil {
			logging.Warn("Failed to update device registry", zap.Error(err))
		}
	}
	return dev, t, nil
}

// withDevice connects and runs fn, reporting failures as a result box
func withDevice(cmd *cobra.Command, title string, fn func(ctx context.Context, dev *tasmota.Device, t *target) error) error {
	ctx := commandContext(cmd)

	dev, t, err := connect(ctx)
	if err != nil {
		return report("Connection failed", err)
	}
	if err := fn(ctx, dev, t); err != nil {
		return report(title+" failed", err)
	}
	return nil
}

// report prints a failure box with troubleshooting tips on stderr
func report(title string, err error) error {
	p := ui.NewPrinter(os.Stderr)
	p.PrintError(title, err, ui.SplitHint(tasmota.TroubleshootingHint(err)))
	return fmt.Errorf("%w: %v", errReported, err)
}

// stdout is the printer for command results
func stdout() *ui.Printer {
	return ui.NewPrinter(os.Stdout)
}
