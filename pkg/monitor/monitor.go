package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/acwatch/acwatch-go/pkg/gpio"
	"github.com/acwatch/acwatch-go/pkg/powerlog"
	"github.com/acwatch/acwatch-go/pkg/shutdown"
)

// Monitor watches one AC-loss line and fires the shutdown action when a
// loss survives the debounce.
type Monitor struct {
	mu sync.RWMutex

	line   gpio.Line
	action shutdown.Action

	debounce    time.Duration
	waitTimeout time.Duration
	sessionID   string

	logger   *slog.Logger
	eventLog powerlog.Logger

	state   State
	stats   Stats
	running bool

	onStateChange func(oldState, newState State)
}

// New creates a Monitor for the given line and shutdown action.
func New(line gpio.Line, action shutdown.Action, cfg Config) (*Monitor, error) {
	if line == nil {
		return nil, ErrNilLine
	}
	if action == nil {
		return nil, ErrNilAction
	}

	m := &Monitor{
		line:        line,
		action:      action,
		debounce:    cfg.DebounceDelay,
		waitTimeout: cfg.EventWaitTimeout,
		sessionID:   cfg.SessionID,
		logger:      cfg.Logger,
		eventLog:    cfg.EventLog,
		state:       StateWatching,
	}

	if m.debounce <= 0 {
		m.debounce = DefaultDebounceDelay
	}
	if m.waitTimeout <= 0 {
		m.waitTimeout = DefaultEventWaitTimeout
	}
	if m.sessionID == "" {
		m.sessionID = uuid.NewString()
	}
	if m.eventLog == nil {
		m.eventLog = powerlog.NoopLogger{}
	}

	return m, nil
}

// State returns the current monitor state.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Stats returns a snapshot of the run counters.
func (m *Monitor) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// SessionID returns the identifier tagging this run's power log events.
func (m *Monitor) SessionID() string {
	return m.sessionID
}

// OnStateChange sets a callback for state changes. The callback runs on
// the monitor goroutine and must not block.
func (m *Monitor) OnStateChange(fn func(oldState, newState State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

// Run executes the event loop until the context is cancelled, the line's
// event stream is closed, a re-sample fails, or a confirmed loss has been
// acted on.
//
// Run returns nil after a confirmed loss: the machine is expected to halt
// imminently and there is nothing further to do. A re-sample failure is
// returned as an error so the supervisor restarts the daemon with a fresh
// line handle.
func (m *Monitor) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	if m.state == StateShuttingDown {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	m.logInfo("monitoring for AC loss",
		"chip", m.line.Chip(),
		"line", m.line.Offset(),
		"debounce", m.debounce)

	for {
		select {
		case <-ctx.Done():
			m.logInfo("monitor stopping", "reason", ctx.Err())
			return ctx.Err()

		case evt, ok := <-m.line.Events():
			if !ok {
				return ErrEventStreamClosed
			}
			done, err := m.handleEdge(ctx, evt)
			if err != nil {
				return err
			}
			if done {
				return nil
			}

		case <-time.After(m.waitTimeout):
			// Quiet line. Not an error; re-poll so the loop stays
			// responsive to cancellation.
			m.mu.Lock()
			m.stats.Timeouts++
			m.mu.Unlock()
			m.logDebug("no line activity", "timeout", m.waitTimeout)
		}
	}
}

// handleEdge processes a single edge event. It returns done=true when a
// confirmed loss has been acted on and the loop should terminate.
func (m *Monitor) handleEdge(ctx context.Context, evt gpio.Event) (bool, error) {
	m.mu.Lock()
	m.stats.Edges++
	state := m.state
	m.mu.Unlock()

	m.logDebug("edge event",
		"edge", evt.Edge.String(),
		"seqno", evt.Seqno,
		"state", state.String())
	m.eventLog.Log(powerlog.Event{
		Timestamp: time.Now(),
		SessionID: m.sessionID,
		Category:  powerlog.CategoryEdge,
		Edge: &powerlog.EdgeEvent{
			Edge:  evt.Edge,
			Seqno: evt.Seqno,
			State: state.String(),
		},
	})

	switch evt.Edge {
	case gpio.EdgeRising:
		return m.debounceLoss(ctx)
	case gpio.EdgeFalling:
		// Restoration while watching. Nothing was pending, so there is no
		// state to unwind.
		m.logInfo("power restored", "seqno", evt.Seqno)
		return false, nil
	default:
		return false, nil
	}
}

// debounceLoss runs one debounce cycle: sleep out the delay, then re-sample
// the line. The sleep is deliberately not interruptible; a restoration
// during the delay is only observed at the re-sample.
func (m *Monitor) debounceLoss(ctx context.Context) (bool, error) {
	m.setState(StateDebouncing, "power loss asserted")

	m.mu.Lock()
	m.stats.Debounces++
	m.mu.Unlock()

	m.logInfo("power loss detected, debouncing", "delay", m.debounce)
	time.Sleep(m.debounce)

	value, err := m.line.Value()
	if err != nil {
		m.logError("re-sample failed", "error", err)
		m.logErrorEvent(err, "re-sampling line after debounce")
		return false, fmt.Errorf("re-sampling %s line %d: %w",
			m.line.Chip(), m.line.Offset(), err)
	}

	if value == 0 {
		m.mu.Lock()
		m.stats.Aborts++
		m.mu.Unlock()
		m.logInfo("power restored during debounce")
		m.setState(StateWatching, "restored during debounce")
		return false, nil
	}

	m.setState(StateShuttingDown, "power loss confirmed")
	m.invokeShutdown(ctx)
	return true, nil
}

// invokeShutdown fires the action and records the outcome. A failed
// invocation is logged but not retried; the decision stands and the loop
// terminates regardless.
func (m *Monitor) invokeShutdown(ctx context.Context) {
	m.mu.Lock()
	m.stats.Shutdowns++
	m.mu.Unlock()

	m.logInfo("power loss confirmed, invoking shutdown")

	start := time.Now()
	err := m.action.Invoke(ctx)
	elapsed := time.Since(start)

	if err != nil {
		m.logError("shutdown invocation failed", "error", err, "duration", elapsed)
	} else {
		m.logInfo("shutdown invoked", "duration", elapsed)
	}

	action := &powerlog.ActionEvent{
		Success:  err == nil,
		Duration: elapsed,
	}
	if s, ok := m.action.(fmt.Stringer); ok {
		action.Command = s.String()
	}
	if err != nil {
		action.Error = err.Error()
	}
	m.eventLog.Log(powerlog.Event{
		Timestamp: time.Now(),
		SessionID: m.sessionID,
		Category:  powerlog.CategoryAction,
		Action:    action,
	})
}

// setState transitions the state, logging the event and then firing the
// callback, both outside the lock. The event is on record before the
// callback runs.
func (m *Monitor) setState(newState State, reason string) {
	m.mu.Lock()
	oldState := m.state
	if oldState == newState {
		m.mu.Unlock()
		return
	}
	m.state = newState
	fn := m.onStateChange
	m.mu.Unlock()

	m.logInfo("state change",
		"old", oldState.String(),
		"new", newState.String(),
		"reason", reason)
	m.eventLog.Log(powerlog.Event{
		Timestamp: time.Now(),
		SessionID: m.sessionID,
		Category:  powerlog.CategoryState,
		StateChange: &powerlog.StateChangeEvent{
			OldState: oldState.String(),
			NewState: newState.String(),
			Reason:   reason,
		},
	})

	if fn != nil {
		fn(oldState, newState)
	}
}

// logErrorEvent records a monitoring failure in the power log.
func (m *Monitor) logErrorEvent(err error, context string) {
	m.eventLog.Log(powerlog.Event{
		Timestamp: time.Now(),
		SessionID: m.sessionID,
		Category:  powerlog.CategoryError,
		Error: &powerlog.ErrorEventData{
			Message: err.Error(),
			Context: context,
		},
	})
}

// logInfo logs an info message if logging is enabled.
func (m *Monitor) logInfo(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Info(msg, args...)
	}
}

// logDebug logs a debug message if logging is enabled.
func (m *Monitor) logDebug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

// logError logs an error message if logging is enabled.
func (m *Monitor) logError(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Error(msg, args...)
	}
}
