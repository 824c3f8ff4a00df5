// Package monitor implements the AC-loss state machine for UPS-equipped
// boards.
//
// The monitor owns a single GPIO input line that the UPS asserts when mains
// power is lost. It waits for edge events, debounces a loss by re-sampling
// the line after a fixed delay, and fires the configured shutdown action at
// most once per run.
//
// # State Machine
//
//   - WATCHING: steady state, waiting for edges with a bounded timeout
//   - DEBOUNCING: a rising edge was seen; sleeping before the re-sample
//   - SHUTTING_DOWN: the re-sample confirmed the loss; terminal
//
// A rising edge in WATCHING enters DEBOUNCING. The debounce delay is a
// plain sleep with no cancellation: a restoration during the delay is only
// observed at the re-sample, which aborts the pending shutdown and returns
// to WATCHING. A falling edge in WATCHING is logged as a restoration with
// no state change. SHUTTING_DOWN is terminal; Run returns after the action
// completes and no further events are processed.
//
// # Ordering
//
// The loop runs on a single goroutine and processes events strictly in the
// order the line delivered them. Edges queued while the monitor sleeps
// through a debounce are handled afterwards as fresh events; repeated
// rising edges therefore never extend a running debounce and never cause a
// second invocation.
package monitor
