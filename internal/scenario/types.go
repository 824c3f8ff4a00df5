// Package scenario provides YAML-scripted conformance runs for the AC
// loss monitor. A scenario drives a simulated line along a timed script
// and checks the monitor's end state against declared expectations.
package scenario

// Scenario is a single timed line script run against a real monitor.
type Scenario struct {
	// Name is the unique scenario identifier (e.g. "restored-during-debounce").
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Board selects the profile whose shutdown helper arguments the run
	// reports. Empty means the default board.
	Board string `yaml:"board,omitempty"`

	// Monitor holds the monitor timings, scaled down to a short real clock.
	Monitor MonitorSpec `yaml:"monitor"`

	// Line holds the simulated line setup.
	Line LineSpec `yaml:"line"`

	// Steps drive the line level over time, ordered by at_ms.
	Steps []Step `yaml:"steps"`

	// RunForMS is the total run window in milliseconds. Zero means the
	// window is derived from the last step plus the debounce delay.
	RunForMS int `yaml:"run_for_ms,omitempty"`

	// Expect is checked once the run settles.
	Expect Expect `yaml:"expect"`
}

// MonitorSpec configures the monitor under test.
type MonitorSpec struct {
	// DebounceMS is the confirmation delay in milliseconds.
	DebounceMS int `yaml:"debounce_ms"`

	// WaitTimeoutMS bounds a single event wait, in milliseconds.
	WaitTimeoutMS int `yaml:"wait_timeout_ms"`
}

// LineSpec configures the simulated line.
type LineSpec struct {
	// Initial is the starting line level (0 = power present, 1 = lost).
	Initial int `yaml:"initial"`
}

// Step sets the line level at a point on the scenario clock.
type Step struct {
	// AtMS is the offset from scenario start, in milliseconds.
	AtMS int `yaml:"at_ms"`

	// Set is the level to drive (0 or 1).
	Set int `yaml:"set"`
}

// Expect describes the required end state of a run.
type Expect struct {
	// FinalState is the required monitor state: WATCHING, DEBOUNCING, or
	// SHUTTING_DOWN. Empty skips the check.
	FinalState string `yaml:"final_state,omitempty"`

	// Shutdowns is the required number of action invocations. Omitted
	// means the action must not fire.
	Shutdowns int `yaml:"shutdowns"`

	// ShutdownArgs, when set, must match the helper arguments of the
	// resolved board profile.
	ShutdownArgs []string `yaml:"shutdown_args,omitempty"`

	// Debounces, when set, is the required number of debounce cycles.
	Debounces *int `yaml:"debounces,omitempty"`

	// Aborts, when set, is the required number of abandoned debounces.
	Aborts *int `yaml:"aborts,omitempty"`

	// MinTimeouts, when non-zero, is the minimum number of bounded event
	// waits that must have elapsed.
	MinTimeouts int `yaml:"min_timeouts,omitempty"`

	// MinRuntimeMS, when non-zero, is the minimum wall time of the run in
	// milliseconds. It guards that the debounce delay was actually held.
	MinRuntimeMS int `yaml:"min_runtime_ms,omitempty"`
}

// LoadError provides details about a scenario loading failure.
type LoadError struct {
	// File is the path of the scenario that failed to load.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	if e.File == "" {
		return e.Message
	}
	return e.File + ": " + e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
