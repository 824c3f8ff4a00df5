// Package gpio provides access to a single digital-input line on a Linux
// GPIO character device, subscribed for edge events.
//
// The package exposes the small Line interface the monitor consumes: an
// ordered edge-event stream, a steady-state re-sample, and release. The
// production implementation (Request) claims the line via the GPIO chardev
// uAPI with a consumer label; Sim provides an in-memory line for tests and
// the acwatch-sim console.
package gpio

import (
	"errors"
	"fmt"
	"time"
)

// Package errors.
var (
	// ErrHardwareUnavailable wraps any failure to open the chip, claim the
	// line, or subscribe for edge events. Callers treat it as fatal: the
	// hardware configuration is static, so a failure here is a
	// misconfiguration that will not self-heal.
	ErrHardwareUnavailable = errors.New("gpio: hardware unavailable")

	// ErrInvalidConfig indicates a rejected line configuration.
	ErrInvalidConfig = errors.New("gpio: invalid configuration")

	// ErrClosed is returned by operations on a released line.
	ErrClosed = errors.New("gpio: line closed")
)

// Edge identifies the direction of a line transition.
type Edge uint8

const (
	// EdgeRising is a transition from inactive to active.
	EdgeRising Edge = iota

	// EdgeFalling is a transition from active to inactive.
	EdgeFalling
)

// String returns the edge name.
func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "RISING"
	case EdgeFalling:
		return "FALLING"
	default:
		return "UNKNOWN"
	}
}

// Event is a single edge transition observed on the line.
type Event struct {
	// Edge is the transition direction.
	Edge Edge

	// Timestamp is when the event was delivered to this process.
	Timestamp time.Time

	// Seqno is the kernel sequence number of the event on this line,
	// starting at 1. Zero when the source does not number events (Sim).
	Seqno uint32
}

// Line is an open subscription to a single digital-input line.
//
// A Line is exclusively owned by its holder until Close. Events are
// delivered strictly in the order the hardware raised them.
type Line interface {
	// Events returns the edge-event stream. The channel is closed when the
	// line is closed.
	Events() <-chan Event

	// Value re-samples the line's current steady state: 0 inactive,
	// 1 active.
	Value() (int, error)

	// Chip returns the controller identifier the line was requested from.
	Chip() string

	// Offset returns the line offset on its controller.
	Offset() int

	// Close releases the line request. It is safe to call Close more than
	// once.
	Close() error
}

// DefaultConsumer is the consumer label recorded against the line request
// when Config.Consumer is empty.
const DefaultConsumer = "acwatch"

// DefaultEventBuffer is the event channel capacity used when Config.Buffer
// is zero. The kernel buffers a comparable number of events per line, so a
// larger buffer only papers over a pathologically noisy signal.
const DefaultEventBuffer = 16

// Config identifies the line to claim and how to claim it.
type Config struct {
	// Chip is the GPIO controller, by name ("gpiochip0") or full path.
	Chip string

	// Line is the input line offset on the chip.
	Line int

	// ActiveLow inverts the line's polarity: the physical low level reads
	// as active and edge directions follow the logical value.
	ActiveLow bool

	// Consumer is the label recorded against the request so other tools
	// can see who owns the line. Defaults to DefaultConsumer.
	Consumer string

	// Buffer is the event channel capacity. Defaults to DefaultEventBuffer.
	Buffer int
}

// validate checks the config and applies defaults in place.
func (c *Config) validate() error {
	if c.Chip == "" {
		return fmt.Errorf("%w: chip name required", ErrInvalidConfig)
	}
	if c.Line < 0 {
		return fmt.Errorf("%w: line offset must be >= 0", ErrInvalidConfig)
	}
	if c.Consumer == "" {
		c.Consumer = DefaultConsumer
	}
	if c.Buffer <= 0 {
		c.Buffer = DefaultEventBuffer
	}
	return nil
}
