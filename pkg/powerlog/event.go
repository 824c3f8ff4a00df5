package powerlog

import (
	"time"

	"github.com/acwatch/acwatch-go/pkg/gpio"
)

// Event represents a power log event captured by the monitor.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the daemon run that produced the event (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Type-specific payload (one of these will be set).
	Edge        *EdgeEvent        `cbor:"4,keyasint,omitempty"` // Raw line transition
	StateChange *StateChangeEvent `cbor:"5,keyasint,omitempty"` // Monitor state transition
	Action      *ActionEvent      `cbor:"6,keyasint,omitempty"` // Shutdown invocation
	Session     *SessionEvent     `cbor:"7,keyasint,omitempty"` // Daemon start
	Error       *ErrorEventData   `cbor:"8,keyasint,omitempty"` // Monitoring failures
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryEdge indicates a raw line transition.
	CategoryEdge Category = 0
	// CategoryState indicates a monitor state transition.
	CategoryState Category = 1
	// CategoryAction indicates a shutdown helper invocation.
	CategoryAction Category = 2
	// CategorySession indicates a daemon session boundary.
	CategorySession Category = 3
	// CategoryError indicates a monitoring failure.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryEdge:
		return "EDGE"
	case CategoryState:
		return "STATE"
	case CategoryAction:
		return "ACTION"
	case CategorySession:
		return "SESSION"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// EdgeEvent captures a raw line transition as delivered by the kernel.
type EdgeEvent struct {
	// Edge is the transition direction.
	Edge gpio.Edge `cbor:"1,keyasint"`

	// Seqno is the kernel sequence number of the event (0 if unnumbered).
	Seqno uint32 `cbor:"2,keyasint,omitempty"`

	// State is the monitor state when the edge was received.
	State string `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures a monitor state transition.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty for the initial state).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ActionEvent captures a shutdown helper invocation and its outcome.
type ActionEvent struct {
	// Command is the full command line that was invoked.
	Command string `cbor:"1,keyasint,omitempty"`

	// Success indicates whether the helper completed without error.
	Success bool `cbor:"2,keyasint"`

	// Duration is how long the invocation took. Stored as nanoseconds.
	Duration time.Duration `cbor:"3,keyasint"`

	// Error is the failure message for unsuccessful invocations.
	Error string `cbor:"4,keyasint,omitempty"`
}

// SessionEvent captures a daemon start with its effective configuration.
// It is the first event of every session and lets a reader interpret the
// rest of the trace without access to the config file.
type SessionEvent struct {
	// Version is the daemon version.
	Version string `cbor:"1,keyasint,omitempty"`

	// Board is the board profile name ("x728"), empty for manual config.
	Board string `cbor:"2,keyasint,omitempty"`

	// Chip is the GPIO controller the line was requested from.
	Chip string `cbor:"3,keyasint"`

	// Line is the line offset on the chip.
	Line int `cbor:"4,keyasint"`

	// ActiveLow indicates inverted polarity.
	ActiveLow bool `cbor:"5,keyasint,omitempty"`

	// Debounce is the confirmation delay. Stored as nanoseconds.
	Debounce time.Duration `cbor:"6,keyasint"`

	// InitialLevel is the line level sampled at startup (0 or 1).
	InitialLevel int `cbor:"7,keyasint"`

	// Host describes the machine the daemon runs on.
	Host *HostInfo `cbor:"8,keyasint,omitempty"`
}

// HostInfo describes the host a session ran on.
type HostInfo struct {
	Hostname        string `cbor:"1,keyasint,omitempty"`
	OS              string `cbor:"2,keyasint,omitempty"`
	Platform        string `cbor:"3,keyasint,omitempty"`
	PlatformVersion string `cbor:"4,keyasint,omitempty"`
	KernelVersion   string `cbor:"5,keyasint,omitempty"`
	KernelArch      string `cbor:"6,keyasint,omitempty"`
	UptimeSeconds   uint64 `cbor:"7,keyasint,omitempty"`
}

// ErrorEventData captures failures observed while monitoring.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
