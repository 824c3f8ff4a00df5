// Package commands implements the acwatch-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/acwatch/acwatch-go/pkg/powerlog"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Category  *powerlog.Category
	SessionID string
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event powerlog.Event) {
	// Header line: timestamp [sess:id] CATEGORY Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	sessID := shortenSessionID(event.SessionID)

	var typeLabel string
	switch {
	case event.Edge != nil:
		typeLabel = event.Edge.Edge.String()
	case event.StateChange != nil:
		typeLabel = event.StateChange.NewState
	case event.Action != nil:
		typeLabel = "Shutdown"
	case event.Session != nil:
		typeLabel = "Start"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [sess:%s] %-7s %s\n", ts, sessID, event.Category.String(), typeLabel)

	switch {
	case event.Edge != nil:
		formatEdgeDetails(w, event.Edge)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Action != nil:
		formatActionDetails(w, event.Action)
	case event.Session != nil:
		formatSessionDetails(w, event.Session)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatEdgeDetails writes edge-specific details.
func formatEdgeDetails(w io.Writer, e *powerlog.EdgeEvent) {
	if e.Seqno != 0 {
		fmt.Fprintf(w, "  Seqno: %d\n", e.Seqno)
	}
	if e.State != "" {
		fmt.Fprintf(w, "  State: %s\n", e.State)
	}
}

// formatStateChangeDetails writes state change details.
func formatStateChangeDetails(w io.Writer, sc *powerlog.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// formatActionDetails writes shutdown invocation details.
func formatActionDetails(w io.Writer, a *powerlog.ActionEvent) {
	if a.Command != "" {
		fmt.Fprintf(w, "  Command: %s\n", a.Command)
	}
	if a.Success {
		fmt.Fprintf(w, "  Result: ok\n")
	} else {
		fmt.Fprintf(w, "  Result: failed\n")
	}
	fmt.Fprintf(w, "  Duration: %s\n", formatDuration(a.Duration))
	if a.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", a.Error)
	}
}

// formatSessionDetails writes daemon session details.
func formatSessionDetails(w io.Writer, s *powerlog.SessionEvent) {
	if s.Version != "" {
		fmt.Fprintf(w, "  Version: %s\n", s.Version)
	}
	if s.Board != "" {
		fmt.Fprintf(w, "  Board: %s\n", s.Board)
	}
	polarity := "active high"
	if s.ActiveLow {
		polarity = "active low"
	}
	fmt.Fprintf(w, "  Line: %s:%d (%s)\n", s.Chip, s.Line, polarity)
	fmt.Fprintf(w, "  Debounce: %s\n", s.Debounce)
	fmt.Fprintf(w, "  Initial level: %d\n", s.InitialLevel)
	if s.Host != nil {
		fmt.Fprintf(w, "  Host: %s (%s %s, %s)\n",
			s.Host.Hostname, s.Host.Platform, s.Host.PlatformVersion, s.Host.KernelArch)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, e *powerlog.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (powerlog.Category, error) {
	return parseCategory(s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (powerlog.Category, error) {
	switch strings.ToLower(s) {
	case "edge":
		return powerlog.CategoryEdge, nil
	case "state":
		return powerlog.CategoryState, nil
	case "action":
		return powerlog.CategoryAction, nil
	case "session":
		return powerlog.CategorySession, nil
	case "error":
		return powerlog.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be edge, state, action, session, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := powerlog.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if filter.Category != nil && event.Category != *filter.Category {
			continue
		}
		if filter.SessionID != "" && event.SessionID != filter.SessionID {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}
