// Package shutdown defines the action the monitor fires when a power loss
// is confirmed, and the standard implementation that hands off to a
// privileged helper binary.
//
// The action is deliberately a single method so tests can substitute a
// Recorder or mock and the simulator can substitute a logging stub.
package shutdown

import (
	"context"
	"errors"
)

// ErrNoCommand indicates an invocation with no helper binary configured.
var ErrNoCommand = errors.New("shutdown: no command configured")

// Action is fired exactly once when a power loss is confirmed. Invoke does
// not return until the action has completed or failed; the caller decides
// nothing afterwards beyond reporting the error.
type Action interface {
	Invoke(ctx context.Context) error
}
