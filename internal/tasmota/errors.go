package tasmota

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/muurk/tasmota/internal/urls"
)

// Kind represents the category of error that occurred
type Kind int

const (
	// KindInvalidArgument indicates a caller-supplied value outside its domain.
	// Always detected before any network call.
	KindInvalidArgument Kind = iota
	// KindAuthentication indicates the device demanded credentials that were missing or wrong
	KindAuthentication
	// KindConnection indicates a transport-level failure (network error, timeout, failed probe)
	KindConnection
	// KindCommand indicates the device answered but not with the expected reply
	KindCommand
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// AuthReason distinguishes the two authentication failures reported by Connect
type AuthReason int

const (
	AuthNone AuthReason = iota
	// AuthMissing means the device wants credentials and none were configured
	AuthMissing
	// AuthInvalid means credentials were configured but the device rejected them
	AuthInvalid
)

const (
	// AuthRequiredMessage is the message of an AuthMissing failure
	AuthRequiredMessage = "username (usually admin) and password are required"
	// AuthInvalidMessage is the message of an AuthInvalid failure
	AuthInvalidMessage = "username and/or password are invalid"
)

// String returns a human-readable name for the error kind
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "Invalid Argument"
	case KindAuthentication:
		return "Authentication Failure"
	case KindConnection:
		return "Connection Failure"
	case KindCommand:
		return "Command Failure"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Error is the single error type returned by this package
type Error struct {
	Kind           Kind                // Category of error
	Message        string              // Human-readable error message
	Command        string              // Command being sent (if any)
	StatusCode     int                 // HTTP status code (if applicable)
	Body           string              // Raw response body (if any)
	Reply          *Reply              // Decoded reply that failed validation (if any)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
	AuthReason     AuthReason          // Missing vs invalid credentials
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Command != "" {
		msg = fmt.Sprintf("%s: %s (command %q)", e.Kind, e.Message, e.Command)
	}
	switch {
	case e.Reply != nil:
		msg += ": " + string(e.Reply.Raw())
	case e.Body != "":
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a ConnectionFailure
// with the most specific subtype that applies.
func ClassifyNetworkError(err error) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &Error{
			Kind:           KindConnection,
			Message:        "request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Kind:           KindConnection,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &Error{
				Kind:           KindConnection,
				Message:        "device refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
			}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &Error{
				Kind:           KindConnection,
				Message:        "host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
			}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &Error{
				Kind:           KindConnection,
				Message:        "network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		// Recursively classify the underlying error, keeping the full chain
		classified := ClassifyNetworkError(urlErr.Err)
		classified.Err = err
		return classified
	}

	return &Error{
		Kind:           KindConnection,
		Message:        "network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
	}
}

// NewConnectionError creates a connection failure with automatic classification
func NewConnectionError(message string, err error) *Error {
	classified := ClassifyNetworkError(err)
	if classified == nil {
		return &Error{Kind: KindConnection, Message: message}
	}
	classified.Message = message
	return classified
}

// NewInvalidArgumentError creates an invalid argument error
func NewInvalidArgumentError(format string, args ...any) *Error {
	return &Error{
		Kind:    KindInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewHTTPStatusError creates a command failure for a non-200 response
func NewHTTPStatusError(command string, statusCode int, body []byte) *Error {
	return &Error{
		Kind:       KindCommand,
		Message:    fmt.Sprintf("unexpected HTTP status %d", statusCode),
		Command:    command,
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// NewDecodeError creates a command failure for a body that is not a JSON object
func NewDecodeError(command string, body []byte, err error) *Error {
	return &Error{
		Kind:    KindCommand,
		Message: "non-JSON data returned by device",
		Command: command,
		Body:    string(body),
		Err:     err,
	}
}

// NewReplyError creates a command failure for a reply of unexpected shape
func NewReplyError(command string, reply *Reply) *Error {
	return &Error{
		Kind:    KindCommand,
		Message: "command failed",
		Command: command,
		Reply:   reply,
	}
}

// NewAuthError creates an authentication failure for the given reason
func NewAuthError(reason AuthReason) *Error {
	msg := AuthInvalidMessage
	if reason == AuthMissing {
		msg = AuthRequiredMessage
	}
	return &Error{
		Kind:       KindAuthentication,
		Message:    msg,
		AuthReason: reason,
	}
}

func kindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindInvalidArgument
}

// IsAuthenticationFailure checks if an error is an authentication failure
func IsAuthenticationFailure(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindAuthentication
}

// IsConnectionFailure checks if an error is a connection failure
func IsConnectionFailure(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindConnection
}

// IsCommandFailure checks if an error is a command failure
func IsCommandFailure(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindCommand
}

// IsRetryable reports whether repeating the same call could succeed.
// Nothing in this package retries; the answer is advice for callers.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindConnection:
		return e.NetworkSubtype != NetworkErrorDNS
	case KindCommand:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// TroubleshootingHint returns user-friendly troubleshooting advice for an error
func TroubleshootingHint(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "An unexpected error occurred. Please try again."
	}

	switch e.Kind {
	case KindInvalidArgument:
		return "A value was rejected before anything was sent to the device. Check the error message for the allowed range."

	case KindAuthentication:
		hint := []string{"The device web interface is password protected.", "Troubleshooting:"}
		if e.AuthReason == AuthMissing {
			hint = append(hint, "  • Pass --user and --password (the username is usually admin)")
		} else {
			hint = append(hint,
				"  • Check the web admin password set with the WebPassword command",
				"  • The username is usually admin")
		}
		hint = append(hint, "  • See "+urls.WebCommands)
		return strings.Join(hint, "\n")

	case KindConnection:
		switch e.NetworkSubtype {
		case NetworkErrorTimeout:
			return strings.Join([]string{
				"The device did not respond in time.",
				"Troubleshooting:",
				"  • Check that the device is powered on and joined to WiFi",
				"  • Try increasing --timeout",
				"  • See "+urls.Troubleshooting,
			}, "\n")
		case NetworkErrorConnectionRefused:
			return strings.Join([]string{
				"The device refused the connection.",
				"Troubleshooting:",
				"  • Check that the web server is enabled (WebServer 2)",
				"  • Verify the port in the URL",
				"  • See "+urls.WebCommands,
			}, "\n")
		case NetworkErrorDNS:
			return strings.Join([]string{
				"Could not resolve the device hostname.",
				"Troubleshooting:",
				"  • Use the IP address instead of the hostname",
				"  • Check your network DNS settings",
			}, "\n")
		case NetworkErrorHostUnreachable, NetworkErrorNetworkUnreachable:
			return strings.Join([]string{
				"The device is not reachable on the network.",
				"Troubleshooting:",
				"  • Verify the device IP address is correct",
				"  • Check that you're on the same network as the device",
			}, "\n")
		default:
			return strings.Join([]string{
				"Network communication failed.",
				"Troubleshooting:",
				"  • Check your network connection",
				"  • Verify the device is powered on",
				"  • See "+urls.Troubleshooting,
			}, "\n")
		}

	case KindCommand:
		if e.StatusCode != 0 {
			return fmt.Sprintf("The device returned HTTP %d. Check the URL points at a Tasmota device.", e.StatusCode)
		}
		return strings.Join([]string{
			"The device answered with an unexpected reply.",
			"Troubleshooting:",
			"  • The output number may not exist on this device",
			"  • Check the firmware supports this command",
			"  • Command reference: "+urls.CommandReference,
		}, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Kind {
	case KindAuthentication:
		return "Authentication failed - " + e.Message
	case KindConnection:
		switch e.NetworkSubtype {
		case NetworkErrorTimeout:
			return "Device not responding (timeout)"
		case NetworkErrorConnectionRefused:
			return "Device refused connection"
		case NetworkErrorDNS:
			return "Cannot resolve device hostname"
		case NetworkErrorHostUnreachable:
			return "Device unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable"
		default:
			return "Network error - check connection"
		}
	case KindCommand:
		if e.StatusCode != 0 {
			return fmt.Sprintf("Device error (HTTP %d)", e.StatusCode)
		}
		return "Unexpected reply from device"
	default:
		return e.Message
	}
}
