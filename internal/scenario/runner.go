package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/acwatch/acwatch-go/pkg/board"
	"github.com/acwatch/acwatch-go/pkg/gpio"
	"github.com/acwatch/acwatch-go/pkg/monitor"
	"github.com/acwatch/acwatch-go/pkg/shutdown"
)

// DefaultSettle is the slack added after the derived run window so a
// debounce that started on the last step can complete.
const DefaultSettle = 50 * time.Millisecond

// RunnerConfig configures the scenario runner.
type RunnerConfig struct {
	// Logger receives monitor logs during runs; nil disables them.
	Logger *slog.Logger

	// Settle overrides DefaultSettle.
	Settle time.Duration
}

// Runner executes scenarios against a real monitor on a simulated line.
type Runner struct {
	logger *slog.Logger
	settle time.Duration
}

// NewRunner creates a scenario runner.
func NewRunner(cfg RunnerConfig) *Runner {
	settle := cfg.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Runner{
		logger: cfg.Logger,
		settle: settle,
	}
}

// Result is the outcome of one scenario run.
type Result struct {
	// Scenario is the scenario that was executed.
	Scenario *Scenario

	// FinalState is the monitor state once the run settled.
	FinalState string

	// Shutdowns is how many times the action fired.
	Shutdowns int

	// ShutdownArgs are the helper arguments of the resolved board profile.
	ShutdownArgs []string

	// Stats are the monitor counters at the end of the run.
	Stats monitor.Stats

	// Checks are the evaluated expectations.
	Checks []*CheckResult

	// Passed indicates all checks passed and the run did not error.
	Passed bool

	// Error is a run-level failure: the scenario could not be executed or
	// the monitor returned an unexpected error.
	Error error

	// Duration is the wall time from start to settle.
	Duration time.Duration
}

// CheckResult is one evaluated expectation.
type CheckResult struct {
	// Key is the expectation key (e.g. "final_state").
	Key string

	// Expected is the declared value.
	Expected interface{}

	// Actual is the observed value.
	Actual interface{}

	// Passed indicates the expectation was met.
	Passed bool

	// Message describes the result.
	Message string
}

// SuiteResult aggregates the results of a scenario run.
type SuiteResult struct {
	// Results holds one entry per executed scenario.
	Results []*Result

	// PassCount is the number of passed scenarios.
	PassCount int

	// FailCount is the number of failed scenarios.
	FailCount int

	// Duration is the total time for all scenarios.
	Duration time.Duration
}

// Run executes a single scenario: it starts a fresh monitor on a fresh
// simulated line, drives the step timeline, waits for the run to settle,
// and evaluates the expectations.
func (r *Runner) Run(ctx context.Context, sc *Scenario) *Result {
	result := &Result{Scenario: sc}

	boardName := sc.Board
	if boardName == "" {
		boardName = board.Default
	}
	prof, err := board.Load(boardName)
	if err != nil {
		result.Error = err
		return result
	}
	result.ShutdownArgs = prof.Shutdown.Args

	line := gpio.NewSim(sc.Line.Initial)
	rec := shutdown.NewRecorder()

	mon, err := monitor.New(line, rec, monitor.Config{
		DebounceDelay:    time.Duration(sc.Monitor.DebounceMS) * time.Millisecond,
		EventWaitTimeout: time.Duration(sc.Monitor.WaitTimeoutMS) * time.Millisecond,
		SessionID:        sc.Name,
		Logger:           r.logger,
	})
	if err != nil {
		line.Close()
		result.Error = err
		return result
	}

	start := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- mon.Run(runCtx) }()

	for i := range sc.Steps {
		step := &sc.Steps[i]
		if d := time.Duration(step.AtMS)*time.Millisecond - time.Since(start); d > 0 {
			time.Sleep(d)
		}
		line.Set(step.Set)
	}

	// The run settles when the monitor terminates on its own (confirmed
	// loss) or the scenario window closes.
	var runErr error
	select {
	case runErr = <-done:
	case <-time.After(time.Until(start.Add(r.window(sc)))):
		cancel()
		runErr = <-done
	}
	result.Duration = time.Since(start)
	cancel()
	line.Close()

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		result.Error = runErr
		return result
	}

	result.FinalState = mon.State().String()
	result.Shutdowns = rec.Count()
	result.Stats = mon.Stats()

	r.evaluate(result)
	return result
}

// window returns the wall-clock length of the scenario run.
func (r *Runner) window(sc *Scenario) time.Duration {
	if sc.RunForMS > 0 {
		return time.Duration(sc.RunForMS) * time.Millisecond
	}

	last := 0
	for _, step := range sc.Steps {
		if step.AtMS > last {
			last = step.AtMS
		}
	}
	return time.Duration(last+sc.Monitor.DebounceMS)*time.Millisecond + r.settle
}

// evaluate fills in the check results and the pass verdict.
func (r *Runner) evaluate(result *Result) {
	expect := result.Scenario.Expect

	if expect.FinalState != "" {
		result.addCheck("final_state", expect.FinalState, result.FinalState,
			expect.FinalState == result.FinalState)
	}

	result.addCheck("shutdowns", expect.Shutdowns, result.Shutdowns,
		expect.Shutdowns == result.Shutdowns)

	if len(expect.ShutdownArgs) > 0 {
		result.addCheck("shutdown_args", expect.ShutdownArgs, result.ShutdownArgs,
			slices.Equal(expect.ShutdownArgs, result.ShutdownArgs))
	}

	if expect.Debounces != nil {
		result.addCheck("debounces", *expect.Debounces, result.Stats.Debounces,
			uint64(*expect.Debounces) == result.Stats.Debounces)
	}

	if expect.Aborts != nil {
		result.addCheck("aborts", *expect.Aborts, result.Stats.Aborts,
			uint64(*expect.Aborts) == result.Stats.Aborts)
	}

	if expect.MinTimeouts > 0 {
		passed := result.Stats.Timeouts >= uint64(expect.MinTimeouts)
		check := result.addCheck("min_timeouts", expect.MinTimeouts, result.Stats.Timeouts, passed)
		if !passed {
			check.Message = fmt.Sprintf("expected at least %d timeouts, got %d",
				expect.MinTimeouts, result.Stats.Timeouts)
		}
	}

	if expect.MinRuntimeMS > 0 {
		minRun := time.Duration(expect.MinRuntimeMS) * time.Millisecond
		passed := result.Duration >= minRun
		check := result.addCheck("min_runtime_ms", expect.MinRuntimeMS,
			result.Duration.Milliseconds(), passed)
		if !passed {
			check.Message = fmt.Sprintf("expected a run of at least %s, got %s",
				minRun, result.Duration.Round(time.Millisecond))
		}
	}

	result.Passed = true
	for _, check := range result.Checks {
		if !check.Passed {
			result.Passed = false
			break
		}
	}
}

// addCheck appends a check result with the default message format.
func (res *Result) addCheck(key string, expected, actual interface{}, passed bool) *CheckResult {
	check := &CheckResult{
		Key:      key,
		Expected: expected,
		Actual:   actual,
		Passed:   passed,
	}
	if passed {
		check.Message = fmt.Sprintf("%s = %v", key, actual)
	} else {
		check.Message = fmt.Sprintf("expected %v, got %v", expected, actual)
	}
	res.Checks = append(res.Checks, check)
	return check
}

// RunSuite executes all scenarios in order.
func (r *Runner) RunSuite(ctx context.Context, scenarios []*Scenario) *SuiteResult {
	suite := &SuiteResult{}

	start := time.Now()
	defer func() { suite.Duration = time.Since(start) }()

	for _, sc := range scenarios {
		select {
		case <-ctx.Done():
			return suite
		default:
		}

		result := r.Run(ctx, sc)
		suite.Results = append(suite.Results, result)

		if result.Passed {
			suite.PassCount++
		} else {
			suite.FailCount++
		}
	}

	return suite
}
