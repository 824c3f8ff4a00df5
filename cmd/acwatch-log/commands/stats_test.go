package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/acwatch/acwatch-go/pkg/gpio"
	"github.com/acwatch/acwatch-go/pkg/powerlog"
)

func TestStatsCountsByCategory(t *testing.T) {
	ts := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	events := []powerlog.Event{
		{Timestamp: ts, SessionID: "sess-1", Category: powerlog.CategorySession,
			Session: &powerlog.SessionEvent{Board: "x728", Version: "1.0.0"}},
		{Timestamp: ts.Add(time.Minute), SessionID: "sess-1", Category: powerlog.CategoryEdge,
			Edge: &powerlog.EdgeEvent{Edge: gpio.EdgeRising}},
		{Timestamp: ts.Add(2 * time.Minute), SessionID: "sess-1", Category: powerlog.CategoryEdge,
			Edge: &powerlog.EdgeEvent{Edge: gpio.EdgeFalling}},
		{Timestamp: ts.Add(3 * time.Minute), SessionID: "sess-1", Category: powerlog.CategoryState,
			StateChange: &powerlog.StateChangeEvent{NewState: "DEBOUNCING"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Total Events: 4") {
		t.Errorf("expected total, got: %s", output)
	}
	if !strings.Contains(output, "EDGE:") {
		t.Errorf("expected EDGE count, got: %s", output)
	}
	if !strings.Contains(output, "STATE:") {
		t.Errorf("expected STATE count, got: %s", output)
	}
	if !strings.Contains(output, "SESSION:") {
		t.Errorf("expected SESSION count, got: %s", output)
	}
}

func TestStatsPowerTransitions(t *testing.T) {
	ts := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	events := []powerlog.Event{
		{Timestamp: ts, SessionID: "sess-1", Category: powerlog.CategoryEdge,
			Edge: &powerlog.EdgeEvent{Edge: gpio.EdgeRising}},
		{Timestamp: ts.Add(time.Second), SessionID: "sess-1", Category: powerlog.CategoryEdge,
			Edge: &powerlog.EdgeEvent{Edge: gpio.EdgeFalling}},
		{Timestamp: ts.Add(2 * time.Second), SessionID: "sess-1", Category: powerlog.CategoryEdge,
			Edge: &powerlog.EdgeEvent{Edge: gpio.EdgeRising}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "loss:") || !strings.Contains(output, "2") {
		t.Errorf("expected 2 losses, got: %s", output)
	}
	if !strings.Contains(output, "restore:") {
		t.Errorf("expected restore count, got: %s", output)
	}
}

func TestStatsCountsSessions(t *testing.T) {
	ts := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	events := []powerlog.Event{
		{Timestamp: ts, SessionID: "sess-1", Category: powerlog.CategorySession,
			Session: &powerlog.SessionEvent{Board: "x728", Version: "1.0.0"}},
		{Timestamp: ts.Add(time.Hour), SessionID: "sess-2", Category: powerlog.CategorySession,
			Session: &powerlog.SessionEvent{Board: "x708"}},
		{Timestamp: ts.Add(time.Hour + time.Minute), SessionID: "sess-2", Category: powerlog.CategoryEdge,
			Edge: &powerlog.EdgeEvent{Edge: gpio.EdgeRising}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Sessions: 2") {
		t.Errorf("expected 2 sessions, got: %s", output)
	}
	if !strings.Contains(output, "Board: x728 (acwatch 1.0.0)") {
		t.Errorf("expected board with version, got: %s", output)
	}
	if !strings.Contains(output, "Board: x708") {
		t.Errorf("expected second board, got: %s", output)
	}
}

func TestStatsShutdowns(t *testing.T) {
	ts := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	events := []powerlog.Event{
		{Timestamp: ts, SessionID: "sess-1", Category: powerlog.CategoryAction,
			Action: &powerlog.ActionEvent{Success: true}},
		{Timestamp: ts.Add(time.Hour), SessionID: "sess-2", Category: powerlog.CategoryAction,
			Action: &powerlog.ActionEvent{Success: false, Error: "helper missing"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Shutdown Invocations: 2 (1 failed)") {
		t.Errorf("expected shutdown counts, got: %s", output)
	}
}

func TestStatsTimeRange(t *testing.T) {
	start := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	events := []powerlog.Event{
		{Timestamp: start, SessionID: "sess-1", Category: powerlog.CategoryEdge,
			Edge: &powerlog.EdgeEvent{Edge: gpio.EdgeRising}},
		{Timestamp: end, SessionID: "sess-1", Category: powerlog.CategoryEdge,
			Edge: &powerlog.EdgeEvent{Edge: gpio.EdgeFalling}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Duration:   1m30s") {
		t.Errorf("expected duration, got: %s", output)
	}
}

func TestStatsErrorCount(t *testing.T) {
	ts := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	events := []powerlog.Event{
		{Timestamp: ts, SessionID: "sess-1", Category: powerlog.CategoryError,
			Error: &powerlog.ErrorEventData{Message: "line gone"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Errors: 1") {
		t.Errorf("expected error count, got: %s", buf.String())
	}
}
