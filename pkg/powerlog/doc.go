// Package powerlog provides structured power-event logging for acwatch.
//
// This package defines the Logger interface and Event types for capturing
// what the monitor observed and did: raw edges, state transitions, shutdown
// invocations, and session boundaries. It is separate from operational
// logging (slog) - the power log provides a complete machine-readable trace
// for post-incident analysis of why a system did or did not shut down.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLog = powerlog.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLog, _ = powerlog.NewFileLogger("/var/log/acwatch/power.plog")
//
//	// Both: use MultiLogger
//	cfg.EventLog = powerlog.NewMultiLogger(
//	    powerlog.NewSlogAdapter(slog.Default()),
//	    powerlog.NewFileLogger("/var/log/acwatch/power.plog"),
//	)
//
// # Event Types
//
// Each event carries exactly one payload:
//   - Edge: a raw line transition as delivered by the kernel (EdgeEvent)
//   - State: a monitor state transition (StateChangeEvent)
//   - Action: a shutdown helper invocation and its outcome (ActionEvent)
//   - Session: daemon start, with line configuration and host details (SessionEvent)
//   - Error: a failure observed while monitoring (ErrorEventData)
//
// # File Format
//
// Log files use CBOR encoding with .plog extension. The acwatch-log CLI
// tool provides viewing, filtering, and export capabilities.
package powerlog
