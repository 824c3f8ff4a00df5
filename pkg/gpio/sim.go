package gpio

import (
	"sync"
	"time"
)

// Sim is an in-memory Line for tests and the interactive simulator. Set
// drives the line level, and every level change emits the matching edge
// event on the stream.
type Sim struct {
	mu       sync.Mutex
	value    int
	valueErr error
	seqno    uint32
	closed   bool
	dropped  uint64

	events chan Event
}

var _ Line = (*Sim)(nil)

// NewSim returns a simulated line at the given initial level. Any non-zero
// level is treated as 1.
func NewSim(initial int) *Sim {
	if initial != 0 {
		initial = 1
	}
	return &Sim{
		value:  initial,
		events: make(chan Event, DefaultEventBuffer),
	}
}

// Set drives the line to the given level. A level change emits the
// matching edge event; re-asserting the current level is a no-op.
func (s *Sim) Set(v int) {
	if v != 0 {
		v = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || v == s.value {
		return
	}
	s.value = v

	s.seqno++
	e := Event{
		Timestamp: time.Now(),
		Seqno:     s.seqno,
	}
	if v == 1 {
		e.Edge = EdgeRising
	} else {
		e.Edge = EdgeFalling
	}

	select {
	case s.events <- e:
	default:
		s.dropped++
	}
}

// SetValueError makes subsequent Value calls fail with err. A nil err
// clears the injected failure.
func (s *Sim) SetValueError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valueErr = err
}

// Events returns the edge-event stream. The channel is closed by Close.
func (s *Sim) Events() <-chan Event {
	return s.events
}

// Value returns the current line level, or the injected read error.
func (s *Sim) Value() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if s.valueErr != nil {
		return 0, s.valueErr
	}
	return s.value, nil
}

// Chip returns the simulated controller name.
func (s *Sim) Chip() string {
	return "sim"
}

// Offset returns the simulated line offset.
func (s *Sim) Offset() int {
	return 0
}

// Dropped reports how many edge events were discarded because the event
// buffer was full.
func (s *Sim) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close closes the event channel. Further Value calls return ErrClosed and
// further Set calls are ignored.
func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.events)
	return nil
}
