// Package tasmota provides an HTTP client for relay devices running Tasmota firmware.
//
// The device executes text commands sent to its /cm endpoint and answers
// with a JSON object. This package turns typed operations (power control,
// blink settings, friendly names, status queries) into those commands,
// validates inputs before anything is sent, and checks each reply has the
// shape the command promises.
//
// # Usage Example
//
//	dev, err := tasmota.Connect(ctx, tasmota.Config{
//	    URL:      "192.168.1.50",
//	    Username: "admin",
//	    Password: "secret",
//	})
//	if err != nil {
//	    log.Fatal(tasmota.ShortMessage(err))
//	}
//
//	on, err := dev.SetPower(ctx, tasmota.PowerToggle, tasmota.Output1)
//
// # Wire Protocol
//
// Every operation is one HTTP GET:
//
//	GET {url}/cm?cmnd=POWER1%20ON&user=admin&password=secret
//
// The device answers 200 with a JSON object even when a command fails, so
// replies are validated by content, not by status code.
//
// # Errors
//
// All errors are *Error values classified by Kind:
//   - KindInvalidArgument: a value outside its domain, rejected before any request
//   - KindAuthentication: Connect found the device wants (different) credentials
//   - KindConnection: network failure, timeout, or a failed Connect probe
//   - KindCommand: non-200 status, non-JSON body, or a reply of unexpected shape
//
// Use IsInvalidArgument, IsAuthenticationFailure, IsConnectionFailure and
// IsCommandFailure to classify. Nothing is retried; IsRetryable is advice
// for callers that want to.
//
// # Testing
//
// The network is reached only through the Getter interface, and the
// operations only through Sender. Tests substitute either one with a fake
// returning scripted replies.
//
// # Thread Safety
//
// A Device holds only immutable parameters. Concurrent calls are allowed and
// each performs its own request; there is no ordering between them.
package tasmota
