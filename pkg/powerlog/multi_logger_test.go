package powerlog

import (
	"testing"
	"time"
)

// captureLogger records events for testing
type captureLogger struct {
	events []Event
}

func (c *captureLogger) Log(event Event) {
	c.events = append(c.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	cap1 := &captureLogger{}
	cap2 := &captureLogger{}
	cap3 := &captureLogger{}

	multi := NewMultiLogger(cap1, cap2, cap3)

	event := Event{
		Timestamp: time.Now(),
		SessionID: "session-123",
		Category:  CategoryEdge,
	}

	multi.Log(event)

	// All loggers should have received the event
	for i, c := range []*captureLogger{cap1, cap2, cap3} {
		if len(c.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(c.events))
			continue
		}
		if c.events[0].SessionID != "session-123" {
			t.Errorf("logger %d: SessionID = %q, want %q", i, c.events[0].SessionID, "session-123")
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	multi := NewMultiLogger()

	// Should not panic with empty logger list
	multi.Log(Event{
		Timestamp: time.Now(),
		SessionID: "session-123",
		Category:  CategoryEdge,
	})
}
