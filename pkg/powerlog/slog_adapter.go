package powerlog

import (
	"context"
	"log/slog"
)

// SlogAdapter writes power events to an slog.Logger.
// Useful for development when you want to see events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Info level. Power events are
// rare by nature, so there is no volume concern at Info.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("category", event.Category.String()),
	}

	// Add type-specific attributes
	switch {
	case event.Edge != nil:
		attrs = append(attrs,
			slog.String("edge", event.Edge.Edge.String()),
			slog.Uint64("seqno", uint64(event.Edge.Seqno)),
		)
		if event.Edge.State != "" {
			attrs = append(attrs, slog.String("state", event.Edge.State))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Action != nil:
		attrs = append(attrs,
			slog.String("command", event.Action.Command),
			slog.Bool("success", event.Action.Success),
			slog.Duration("duration", event.Action.Duration),
		)
		if event.Action.Error != "" {
			attrs = append(attrs, slog.String("error", event.Action.Error))
		}
	case event.Session != nil:
		attrs = append(attrs,
			slog.String("version", event.Session.Version),
			slog.String("chip", event.Session.Chip),
			slog.Int("line", event.Session.Line),
			slog.Duration("debounce", event.Session.Debounce),
			slog.Int("initial_level", event.Session.InitialLevel),
		)
		if event.Session.Board != "" {
			attrs = append(attrs, slog.String("board", event.Session.Board))
		}
		if event.Session.Host != nil {
			attrs = append(attrs, slog.String("hostname", event.Session.Host.Hostname))
		}
	case event.Error != nil:
		attrs = append(attrs, slog.String("error_msg", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelInfo, "power", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
