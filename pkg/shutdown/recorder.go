package shutdown

import (
	"context"
	"sync"
	"time"
)

// Recorder is an Action for tests and simulation: it records every
// invocation instead of running anything.
type Recorder struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

var _ Action = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Invoke records the invocation time and returns the configured error.
func (r *Recorder) Invoke(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, time.Now())
	return r.err
}

// Count returns how many times Invoke was called.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Calls returns a copy of the recorded invocation times.
func (r *Recorder) Calls() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Time, len(r.calls))
	copy(out, r.calls)
	return out
}

// SetErr makes subsequent invocations return err.
func (r *Recorder) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}
