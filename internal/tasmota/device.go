package tasmota

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default per-command timeout
	DefaultTimeout = 30 * time.Second

	// AuthPromptMarker is what the firmware answers when the web admin
	// password is set and the request lacks valid credentials
	AuthPromptMarker = "Need user=<username>&password=<password>"
)

// Config describes how to reach a device
type Config struct {
	// URL is the device address, e.g. "192.168.1.50" or "http://plug.local/"
	URL string

	// Username and Password for the web admin. Both set or both empty.
	// The username is usually "admin".
	Username string
	Password string

	// Timeout for each command round trip (default: 30s)
	Timeout time.Duration

	// Getter overrides the HTTP implementation (default: HTTPGetter)
	Getter Getter
}

// Device is a connection to one Tasmota device. It holds only immutable
// parameters and is safe for concurrent use; every call is one round trip.
type Device struct {
	url      string
	username string
	timeout  time.Duration
	hasAuth  bool
	sender   Sender
}

// New validates cfg and builds a Device without contacting it
func New(cfg Config) (*Device, error) {
	if err := ValidateCredentials(cfg.Username, cfg.Password); err != nil {
		return nil, err
	}
	if err := ValidateTimeout(cfg.Timeout); err != nil {
		return nil, err
	}
	baseURL, err := NormalizeURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Device{
		url:      baseURL,
		username: cfg.Username,
		timeout:  timeout,
		hasAuth:  cfg.Password != "",
		sender:   NewTransport(baseURL, cfg.Username, cfg.Password, timeout, cfg.Getter),
	}, nil
}

// NewWithSender builds a Device on top of an arbitrary Sender.
// No URL or credentials are involved; used with fakes in tests.
func NewWithSender(sender Sender) *Device {
	return &Device{sender: sender, timeout: DefaultTimeout}
}

// Connect builds a Device and probes it with an abbreviated status query.
//
// A probe answered with the firmware's credentials prompt becomes an
// authentication failure (AuthMissing without a password, AuthInvalid with
// one). Any other probe failure is a connection failure wrapping the cause.
func Connect(ctx context.Context, cfg Config) (*Device, error) {
	d, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := d.Status(ctx, StatusAbbreviated); err != nil {
		return nil, d.classifyProbeError(err)
	}

	return d, nil
}

func (d *Device) classifyProbeError(err error) error {
	if containsAuthPrompt(err) {
		if d.hasAuth {
			return NewAuthError(AuthInvalid)
		}
		return NewAuthError(AuthMissing)
	}

	connErr := &Error{
		Kind:    KindConnection,
		Message: "failed to connect to tasmota device",
		Err:     err,
	}
	var e *Error
	if errors.As(err, &e) {
		connErr.NetworkSubtype = e.NetworkSubtype
	}
	return connErr
}

// containsAuthPrompt looks for AuthPromptMarker in the raw body or any
// string value of the reply attached to err
func containsAuthPrompt(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return strings.Contains(err.Error(), AuthPromptMarker)
	}
	if strings.Contains(e.Body, AuthPromptMarker) {
		return true
	}
	if e.Reply == nil {
		return false
	}
	if strings.Contains(string(e.Reply.Raw()), AuthPromptMarker) {
		return true
	}
	for _, key := range e.Reply.Keys() {
		if s, ok := e.Reply.String(key); ok && strings.Contains(s, AuthPromptMarker) {
			return true
		}
	}
	return false
}

// URL returns the normalized base URL
func (d *Device) URL() string {
	return d.url
}

// Username returns the configured username, if any
func (d *Device) Username() string {
	return d.username
}

// HasCredentials reports whether requests carry a username and password
func (d *Device) HasCredentials() bool {
	return d.hasAuth
}

// Timeout returns the per-command timeout
func (d *Device) Timeout() time.Duration {
	return d.timeout
}
