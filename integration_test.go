package acwatch_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/acwatch/acwatch-go/pkg/board"
	"github.com/acwatch/acwatch-go/pkg/gpio"
	"github.com/acwatch/acwatch-go/pkg/monitor"
	"github.com/acwatch/acwatch-go/pkg/powerlog"
	"github.com/acwatch/acwatch-go/pkg/shutdown"
)

// TestE2E_ConfirmedLoss drives a power loss through a simulated line and
// verifies the full path: debounce, confirmation, a single shutdown
// invocation, and a complete trace in the event log file.
func TestE2E_ConfirmedLoss(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The default board profile carries the fixed helper invocation.
	prof, err := board.LoadDefault()
	if err != nil {
		t.Fatalf("Failed to load board profile: %v", err)
	}
	helper := shutdown.NewCommand(prof.Shutdown.Command, prof.Shutdown.Args...)
	if got, want := helper.String(), "/usr/local/bin/xSoft.sh 0 26"; got != want {
		t.Fatalf("Helper command mismatch: expected %q, got %q", want, got)
	}

	// Event log in a temp dir, read back at the end.
	logPath := filepath.Join(t.TempDir(), "power.cbor")
	fileLog, err := powerlog.NewFileLogger(logPath)
	if err != nil {
		t.Fatalf("Failed to create event log: %v", err)
	}

	line := gpio.NewSim(0)
	rec := shutdown.NewRecorder()

	const sessionID = "e2e-confirmed-loss"
	mon, err := monitor.New(line, rec, monitor.Config{
		DebounceDelay:    40 * time.Millisecond,
		EventWaitTimeout: 20 * time.Millisecond,
		SessionID:        sessionID,
		EventLog:         fileLog,
	})
	if err != nil {
		t.Fatalf("Failed to create monitor: %v", err)
	}

	// The daemon opens every trace with a session event; mirror that here
	// so the read-back sees a realistic file.
	initial, err := line.Value()
	if err != nil {
		t.Fatalf("Failed to read initial level: %v", err)
	}
	fileLog.Log(powerlog.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Category:  powerlog.CategorySession,
		Session: &powerlog.SessionEvent{
			Board:        prof.Name,
			Chip:         line.Chip(),
			Line:         line.Offset(),
			Debounce:     40 * time.Millisecond,
			InitialLevel: initial,
		},
	})

	done := make(chan error, 1)
	go func() {
		done <- mon.Run(ctx)
	}()

	// Mains fails and stays down through the debounce.
	line.Set(1)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for monitor to terminate")
	}

	if got := mon.State(); got != monitor.StateShuttingDown {
		t.Errorf("Expected state %s, got %s", monitor.StateShuttingDown, got)
	}
	if got := rec.Count(); got != 1 {
		t.Fatalf("Expected exactly 1 shutdown invocation, got %d", got)
	}

	stats := mon.Stats()
	if stats.Debounces != 1 {
		t.Errorf("Expected 1 debounce, got %d", stats.Debounces)
	}
	if stats.Aborts != 0 {
		t.Errorf("Expected 0 aborts, got %d", stats.Aborts)
	}
	if stats.Shutdowns != 1 {
		t.Errorf("Expected 1 shutdown, got %d", stats.Shutdowns)
	}

	// A terminal monitor must not act again.
	if err := mon.Run(ctx); err != nil {
		t.Fatalf("Second Run returned error: %v", err)
	}
	if got := rec.Count(); got != 1 {
		t.Errorf("Second Run re-invoked the action: %d calls", got)
	}

	if err := fileLog.Close(); err != nil {
		t.Fatalf("Failed to close event log: %v", err)
	}

	// Read the trace back and verify the sequence.
	events := readAllEvents(t, logPath)
	wantCategories := []powerlog.Category{
		powerlog.CategorySession,
		powerlog.CategoryEdge,   // rising: loss asserted
		powerlog.CategoryState,  // WATCHING -> DEBOUNCING
		powerlog.CategoryState,  // DEBOUNCING -> SHUTTING_DOWN
		powerlog.CategoryAction, // helper invocation
	}
	assertCategories(t, events, wantCategories)

	for i, evt := range events {
		if evt.SessionID != sessionID {
			t.Errorf("Event[%d]: expected session %q, got %q", i, sessionID, evt.SessionID)
		}
	}

	// Spot-check the payloads.
	if sess := events[0].Session; sess == nil || sess.Board != prof.Name || sess.Chip != "sim" {
		t.Errorf("Event[0]: expected session payload for board %s, got %+v", prof.Name, events[0].Session)
	}
	if edge := events[1].Edge; edge == nil || edge.Edge != gpio.EdgeRising {
		t.Errorf("Event[1]: expected rising edge payload, got %+v", events[1].Edge)
	}
	if sc := events[3].StateChange; sc == nil || sc.NewState != "SHUTTING_DOWN" {
		t.Errorf("Event[3]: expected transition to SHUTTING_DOWN, got %+v", events[3].StateChange)
	}
	if act := events[4].Action; act == nil || !act.Success {
		t.Errorf("Event[4]: expected successful action payload, got %+v", events[4].Action)
	}

	t.Logf("Confirmed loss handled - 1 invocation, %d events in trace", len(events))
}

// TestE2E_RestoredDuringDebounce verifies that power returning inside the
// debounce window aborts the cycle without invoking the helper.
func TestE2E_RestoredDuringDebounce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logPath := filepath.Join(t.TempDir(), "power.cbor")
	fileLog, err := powerlog.NewFileLogger(logPath)
	if err != nil {
		t.Fatalf("Failed to create event log: %v", err)
	}

	line := gpio.NewSim(0)
	rec := shutdown.NewRecorder()

	mon, err := monitor.New(line, rec, monitor.Config{
		DebounceDelay:    100 * time.Millisecond,
		EventWaitTimeout: 20 * time.Millisecond,
		SessionID:        "e2e-aborted-debounce",
		EventLog:         fileLog,
	})
	if err != nil {
		t.Fatalf("Failed to create monitor: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- mon.Run(ctx)
	}()

	// Loss, then restoration well inside the debounce window.
	line.Set(1)
	time.Sleep(30 * time.Millisecond)
	line.Set(0)

	// The abort lands once the debounce sleep runs out and the re-sample
	// sees the restored line.
	if !waitUntil(2*time.Second, func() bool { return mon.Stats().Aborts == 1 }) {
		t.Fatal("Timeout waiting for debounce abort")
	}

	// The falling edge queued during the sleep is drained after the abort.
	if !waitUntil(2*time.Second, func() bool { return mon.Stats().Edges == 2 }) {
		t.Fatal("Timeout waiting for falling edge")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	if got := rec.Count(); got != 0 {
		t.Fatalf("Expected no shutdown invocation, got %d", got)
	}
	if got := mon.State(); got != monitor.StateWatching {
		t.Errorf("Expected state %s, got %s", monitor.StateWatching, got)
	}

	stats := mon.Stats()
	if stats.Debounces != 1 {
		t.Errorf("Expected 1 debounce, got %d", stats.Debounces)
	}
	if stats.Aborts != 1 {
		t.Errorf("Expected 1 abort, got %d", stats.Aborts)
	}

	if err := fileLog.Close(); err != nil {
		t.Fatalf("Failed to close event log: %v", err)
	}

	events := readAllEvents(t, logPath)
	wantCategories := []powerlog.Category{
		powerlog.CategoryEdge,  // rising: loss asserted
		powerlog.CategoryState, // WATCHING -> DEBOUNCING
		powerlog.CategoryState, // DEBOUNCING -> WATCHING
		powerlog.CategoryEdge,  // falling, drained after the abort
	}
	assertCategories(t, events, wantCategories)

	if sc := events[2].StateChange; sc == nil || sc.NewState != "WATCHING" {
		t.Errorf("Event[2]: expected transition back to WATCHING, got %+v", events[2].StateChange)
	}
	if edge := events[3].Edge; edge == nil || edge.Edge != gpio.EdgeFalling {
		t.Errorf("Event[3]: expected falling edge payload, got %+v", events[3].Edge)
	}

	t.Logf("Aborted debounce handled - no invocation, %d events in trace", len(events))
}

// TestE2E_SignalStop verifies that cancellation during a quiet line stops
// the monitor promptly, the way the daemon reacts to SIGTERM.
func TestE2E_SignalStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	line := gpio.NewSim(0)
	rec := shutdown.NewRecorder()

	mon, err := monitor.New(line, rec, monitor.Config{
		DebounceDelay:    50 * time.Millisecond,
		EventWaitTimeout: 25 * time.Millisecond,
		SessionID:        "e2e-signal-stop",
	})
	if err != nil {
		t.Fatalf("Failed to create monitor: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- mon.Run(ctx)
	}()

	// Let the line stay quiet through a few wait timeouts.
	if !waitUntil(2*time.Second, func() bool { return mon.Stats().Timeouts >= 2 }) {
		t.Fatal("Timeout waiting for quiet-line timeouts")
	}

	start := time.Now()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for monitor to stop")
	}

	elapsed := time.Since(start)
	if elapsed > 500*time.Millisecond {
		t.Errorf("Monitor took %v to stop after cancellation", elapsed)
	}

	if got := rec.Count(); got != 0 {
		t.Errorf("Expected no shutdown invocation, got %d", got)
	}
	if got := mon.State(); got != monitor.StateWatching {
		t.Errorf("Expected state %s, got %s", monitor.StateWatching, got)
	}

	t.Logf("Cancellation handled - monitor stopped in %v after %d quiet timeouts",
		elapsed, mon.Stats().Timeouts)
}

// Helper functions

// waitUntil polls cond every few milliseconds until it holds or the
// timeout expires.
func waitUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// readAllEvents reads the full event log back from disk.
func readAllEvents(t *testing.T, path string) []powerlog.Event {
	t.Helper()

	reader, err := powerlog.NewReader(path)
	if err != nil {
		t.Fatalf("Failed to open event log: %v", err)
	}
	defer reader.Close()

	var events []powerlog.Event
	for {
		evt, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Failed to read event back: %v", err)
		}
		events = append(events, evt)
	}
	return events
}

// assertCategories fails the test when the trace's category sequence
// deviates from want.
func assertCategories(t *testing.T, events []powerlog.Event, want []powerlog.Category) {
	t.Helper()

	if len(events) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(events))
	}
	for i, cat := range want {
		if events[i].Category != cat {
			t.Errorf("Event[%d]: expected category %s, got %s", i, cat, events[i].Category)
		}
	}
}
