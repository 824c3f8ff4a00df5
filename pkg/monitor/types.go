package monitor

import (
	"errors"
	"log/slog"
	"time"

	"github.com/acwatch/acwatch-go/pkg/powerlog"
)

// Monitor timing constants.
const (
	// DefaultDebounceDelay is the default delay between a rising edge and
	// the confirming re-sample.
	DefaultDebounceDelay = 5 * time.Second

	// DefaultEventWaitTimeout is the default bound on a single event wait.
	// A timeout is not an error; the loop re-polls so the process stays
	// responsive to termination.
	DefaultEventWaitTimeout = 5 * time.Second
)

// Monitor errors.
var (
	ErrNilLine           = errors.New("monitor: line required")
	ErrNilAction         = errors.New("monitor: shutdown action required")
	ErrAlreadyRunning    = errors.New("monitor: already running")
	ErrEventStreamClosed = errors.New("monitor: event stream closed")
)

// State represents the monitor state.
type State uint8

const (
	// StateWatching indicates steady-state monitoring.
	StateWatching State = iota

	// StateDebouncing indicates a rising edge was seen and the monitor is
	// waiting out the debounce delay.
	StateDebouncing

	// StateShuttingDown indicates a confirmed loss. Terminal.
	StateShuttingDown
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateWatching:
		return "WATCHING"
	case StateDebouncing:
		return "DEBOUNCING"
	case StateShuttingDown:
		return "SHUTTING_DOWN"
	default:
		return "UNKNOWN"
	}
}

// Config holds monitor configuration.
type Config struct {
	// DebounceDelay is the wait between a rising edge and the confirming
	// re-sample. Defaults to DefaultDebounceDelay.
	DebounceDelay time.Duration

	// EventWaitTimeout bounds a single event wait. Defaults to
	// DefaultEventWaitTimeout.
	EventWaitTimeout time.Duration

	// SessionID tags power log events with the daemon run that produced
	// them. Defaults to a fresh UUID.
	SessionID string

	// Logger is the optional logger for status output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// EventLog receives structured power events.
	// If nil, event logging is disabled.
	EventLog powerlog.Logger
}

// Stats are cumulative counters for one monitor run.
type Stats struct {
	// Edges is the number of edge events received.
	Edges uint64

	// Timeouts is the number of bounded event waits that elapsed with no
	// event.
	Timeouts uint64

	// Debounces is the number of debounce cycles entered.
	Debounces uint64

	// Aborts is the number of debounce cycles abandoned because the
	// re-sample read the line as restored.
	Aborts uint64

	// Shutdowns is the number of shutdown invocations (0 or 1).
	Shutdowns uint64
}
