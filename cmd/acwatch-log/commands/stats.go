package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/acwatch/acwatch-go/pkg/gpio"
	"github.com/acwatch/acwatch-go/pkg/powerlog"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[powerlog.Category]int
	RisingEdges      int
	FallingEdges     int
	Shutdowns        int
	FailedShutdowns  int
	Errors           int
	Sessions         map[string]*SessionStats
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single daemon session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Board     string
	Version   string
	Edges     int
	Shutdowns int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := powerlog.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[powerlog.Category]int),
		Sessions:         make(map[string]*SessionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track session stats
		sess, ok := stats.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}

		switch {
		case event.Edge != nil:
			sess.Edges++
			if event.Edge.Edge == gpio.EdgeRising {
				stats.RisingEdges++
			} else {
				stats.FallingEdges++
			}
		case event.Action != nil:
			stats.Shutdowns++
			sess.Shutdowns++
			if !event.Action.Success {
				stats.FailedShutdowns++
			}
		case event.Session != nil:
			if event.Session.Board != "" && sess.Board == "" {
				sess.Board = event.Session.Board
			}
			if event.Session.Version != "" && sess.Version == "" {
				sess.Version = event.Session.Version
			}
		case event.Error != nil:
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== AC Power Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by category
	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []powerlog.Category{powerlog.CategoryEdge, powerlog.CategoryState, powerlog.CategoryAction, powerlog.CategorySession, powerlog.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Power transitions
	if stats.RisingEdges > 0 || stats.FallingEdges > 0 {
		fmt.Fprintln(w, "Power Transitions:")
		fmt.Fprintf(w, "  %-12s %d\n", "loss:", stats.RisingEdges)
		fmt.Fprintf(w, "  %-12s %d\n", "restore:", stats.FallingEdges)
		fmt.Fprintln(w)
	}

	if stats.Shutdowns > 0 {
		fmt.Fprintf(w, "Shutdown Invocations: %d", stats.Shutdowns)
		if stats.FailedShutdowns > 0 {
			fmt.Fprintf(w, " (%d failed)", stats.FailedShutdowns)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w)
	}

	// Sessions
	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		// Sort by first seen time
		type sessInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			shortID := s.id
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortID, s.stats.Events, duration)
			if s.stats.Board != "" {
				fmt.Fprintf(w, "           Board: %s", s.stats.Board)
				if s.stats.Version != "" {
					fmt.Fprintf(w, " (acwatch %s)", s.stats.Version)
				}
				fmt.Fprintln(w)
			}
			if s.stats.Edges > 0 {
				fmt.Fprintf(w, "           Edges: %d\n", s.stats.Edges)
			}
			if s.stats.Shutdowns > 0 {
				fmt.Fprintf(w, "           Shutdowns: %d\n", s.stats.Shutdowns)
			}
		}
	}

	// Errors
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
