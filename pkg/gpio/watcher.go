package gpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Watcher is a Line backed by a kernel GPIO character device. It holds the
// line request for its whole lifetime and bridges the kernel's edge events
// into a buffered channel.
type Watcher struct {
	chip   string
	offset int

	line *gpiocdev.Line

	mu      sync.Mutex
	closed  bool
	dropped uint64

	events chan Event
}

var _ Line = (*Watcher)(nil)

// Request claims the configured line for input with edge detection in both
// directions. The request carries the configured consumer label so other
// tools can see who owns the line.
//
// Errors opening the chip or claiming the line wrap ErrHardwareUnavailable.
func Request(cfg Config) (*Watcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	w := &Watcher{
		chip:   cfg.Chip,
		offset: cfg.Line,
		events: make(chan Event, cfg.Buffer),
	}

	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithConsumer(cfg.Consumer),
		gpiocdev.WithEventHandler(w.handleEvent),
	}
	if cfg.ActiveLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}

	line, err := gpiocdev.RequestLine(cfg.Chip, cfg.Line, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: requesting %s line %d: %w",
			ErrHardwareUnavailable, cfg.Chip, cfg.Line, err)
	}
	w.line = line

	return w, nil
}

// handleEvent runs on the event-delivery goroutine owned by the line
// request. It must not block: when the buffer is full the event is dropped
// and counted rather than stalling delivery.
func (w *Watcher) handleEvent(evt gpiocdev.LineEvent) {
	e := Event{
		Timestamp: time.Now(),
		Seqno:     evt.Seqno,
	}
	switch evt.Type {
	case gpiocdev.LineEventRisingEdge:
		e.Edge = EdgeRising
	case gpiocdev.LineEventFallingEdge:
		e.Edge = EdgeFalling
	default:
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.events <- e:
	default:
		w.dropped++
	}
}

// Events returns the edge-event stream. The channel is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Value re-samples the line's current logical state.
func (w *Watcher) Value() (int, error) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}

	v, err := w.line.Value()
	if err != nil {
		return 0, fmt.Errorf("reading %s line %d: %w", w.chip, w.offset, err)
	}
	return v, nil
}

// Chip returns the controller the line was requested from.
func (w *Watcher) Chip() string {
	return w.chip
}

// Offset returns the line offset on its controller.
func (w *Watcher) Offset() int {
	return w.offset
}

// Dropped reports how many edge events were discarded because the event
// buffer was full.
func (w *Watcher) Dropped() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

// Close releases the line request and closes the event channel. Further
// Value calls return ErrClosed.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.line.Close()
	close(w.events)
	if err != nil {
		return fmt.Errorf("releasing %s line %d: %w", w.chip, w.offset, err)
	}
	return nil
}
