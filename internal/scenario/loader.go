package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse parses a scenario from YAML bytes and validates it.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if err := validate(&sc); err != nil {
		return nil, err
	}

	return &sc, nil
}

// Load loads a scenario from a file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	sc, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{
			File:    path,
			Message: err.Error(),
		}
	}

	return sc, nil
}

// LoadDir loads all scenarios from a directory, in file name order.
// Only files with .yaml or .yml extensions are loaded.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{
			File:    dir,
			Message: "failed to read directory",
			Cause:   err,
		}
	}

	var scenarios []*Scenario
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		sc, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		scenarios = append(scenarios, sc)
	}

	return scenarios, nil
}

// validate checks the structural invariants of a parsed scenario.
func validate(sc *Scenario) error {
	if sc.Name == "" {
		return &LoadError{Message: "scenario name is required"}
	}
	if sc.Monitor.DebounceMS <= 0 {
		return &LoadError{Message: "monitor.debounce_ms must be positive"}
	}
	if sc.Monitor.WaitTimeoutMS <= 0 {
		return &LoadError{Message: "monitor.wait_timeout_ms must be positive"}
	}
	if sc.Line.Initial != 0 && sc.Line.Initial != 1 {
		return &LoadError{Message: "line.initial must be 0 or 1"}
	}
	if sc.RunForMS < 0 {
		return &LoadError{Message: "run_for_ms must not be negative"}
	}

	prev := 0
	for i, step := range sc.Steps {
		if step.AtMS < 0 {
			return &LoadError{Message: fmt.Sprintf("step %d: at_ms must not be negative", i)}
		}
		if step.AtMS < prev {
			return &LoadError{Message: fmt.Sprintf("step %d: steps must be ordered by at_ms", i)}
		}
		if step.Set != 0 && step.Set != 1 {
			return &LoadError{Message: fmt.Sprintf("step %d: set must be 0 or 1", i)}
		}
		prev = step.AtMS
	}

	switch sc.Expect.FinalState {
	case "", "WATCHING", "DEBOUNCING", "SHUTTING_DOWN":
	default:
		return &LoadError{Message: fmt.Sprintf("expect.final_state %q is not a monitor state", sc.Expect.FinalState)}
	}
	if sc.Expect.Shutdowns < 0 {
		return &LoadError{Message: "expect.shutdowns must not be negative"}
	}

	return nil
}
