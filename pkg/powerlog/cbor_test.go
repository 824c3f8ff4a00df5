package powerlog

import (
	"testing"
	"time"

	"github.com/acwatch/acwatch-go/pkg/gpio"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp: ts,
		SessionID: "abc12345-def6-7890-abcd-ef1234567890",
		Category:  CategoryEdge,
		Edge: &EdgeEvent{
			Edge:  gpio.EdgeFalling,
			Seqno: 42,
			State: "WATCHING",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.SessionID != original.SessionID {
		t.Errorf("SessionID: got %q, want %q", decoded.SessionID, original.SessionID)
	}
	if decoded.Category != original.Category {
		t.Errorf("Category: got %v, want %v", decoded.Category, original.Category)
	}
	if decoded.Edge == nil {
		t.Fatal("Edge is nil")
	}
	if decoded.Edge.Edge != original.Edge.Edge {
		t.Errorf("Edge.Edge: got %v, want %v", decoded.Edge.Edge, original.Edge.Edge)
	}
	if decoded.Edge.Seqno != original.Edge.Seqno {
		t.Errorf("Edge.Seqno: got %d, want %d", decoded.Edge.Seqno, original.Edge.Seqno)
	}
	if decoded.Edge.State != original.Edge.State {
		t.Errorf("Edge.State: got %q, want %q", decoded.Edge.State, original.Edge.State)
	}
}

func TestSessionEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		SessionID: "session-1",
		Category:  CategorySession,
		Session: &SessionEvent{
			Version:      "0.3.0",
			Board:        "x728",
			Chip:         "gpiochip0",
			Line:         6,
			Debounce:     5 * time.Second,
			InitialLevel: 1,
			Host: &HostInfo{
				Hostname:      "pi-gateway",
				OS:            "linux",
				Platform:      "raspbian",
				KernelArch:    "aarch64",
				UptimeSeconds: 86400,
			},
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Session == nil {
		t.Fatal("Session is nil")
	}
	if decoded.Session.Chip != "gpiochip0" {
		t.Errorf("Session.Chip: got %q, want %q", decoded.Session.Chip, "gpiochip0")
	}
	if decoded.Session.Line != 6 {
		t.Errorf("Session.Line: got %d, want 6", decoded.Session.Line)
	}
	if decoded.Session.Debounce != 5*time.Second {
		t.Errorf("Session.Debounce: got %v, want %v", decoded.Session.Debounce, 5*time.Second)
	}
	if decoded.Session.Host == nil {
		t.Fatal("Session.Host is nil")
	}
	if decoded.Session.Host.Hostname != "pi-gateway" {
		t.Errorf("Host.Hostname: got %q, want %q", decoded.Session.Host.Hostname, "pi-gateway")
	}
}

func TestActionEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		SessionID: "session-1",
		Category:  CategoryAction,
		Action: &ActionEvent{
			Command:  "/usr/local/bin/xSoft.sh 0 26",
			Success:  false,
			Duration: 120 * time.Millisecond,
			Error:    "exit status 1",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Action == nil {
		t.Fatal("Action is nil")
	}
	if decoded.Action.Command != original.Action.Command {
		t.Errorf("Action.Command: got %q, want %q", decoded.Action.Command, original.Action.Command)
	}
	if decoded.Action.Success {
		t.Error("Action.Success: got true, want false")
	}
	if decoded.Action.Duration != original.Action.Duration {
		t.Errorf("Action.Duration: got %v, want %v", decoded.Action.Duration, original.Action.Duration)
	}
	if decoded.Action.Error != original.Action.Error {
		t.Errorf("Action.Error: got %q, want %q", decoded.Action.Error, original.Action.Error)
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{CategoryEdge, "EDGE"},
		{CategoryState, "STATE"},
		{CategoryAction, "ACTION"},
		{CategorySession, "SESSION"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.category.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
