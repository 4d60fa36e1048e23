// Package logging provides structured logging for the Tasmota client and CLI.
//
// This package wraps zap logger with convenience functions for common logging
// patterns. It provides both general logging functions and specialized
// functions for the device command round trip.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (commands sent, reply sizes, raw bodies)
//   - Info: Normal operations (device registered, exporter started)
//   - Warn: Non-fatal issues (missing .env, registry not found)
//   - Error: Fatal issues (startup failures)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Device registered",
//	    zap.String("name", "kitchen"),
//	    zap.String("url", "http://192.168.1.50"),
//	)
//
// # Command Logging
//
// The transport logs every command round trip at debug level:
//
//	logging.LogCommand(requestID, "POWER1 ON", baseURL)
//	logging.LogReply(requestID, "POWER1 ON", 200, len(body), elapsed)
//
// Credentials are never passed to these functions.
//
// # Configuration
//
// Logging is silent unless a level is given, either explicitly or through
// the TASMOTA_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
