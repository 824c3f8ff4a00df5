package scenario

import "embed"

//go:embed scenarios/*.yaml
var builtinFS embed.FS

// Builtin returns the shipped conformance scenarios, in file name order.
func Builtin() ([]*Scenario, error) {
	entries, err := builtinFS.ReadDir("scenarios")
	if err != nil {
		return nil, &LoadError{Message: "failed to read built-in scenarios", Cause: err}
	}

	var scenarios []*Scenario
	for _, entry := range entries {
		data, err := builtinFS.ReadFile("scenarios/" + entry.Name())
		if err != nil {
			return nil, &LoadError{File: entry.Name(), Message: "failed to read built-in scenario", Cause: err}
		}

		sc, err := Parse(data)
		if err != nil {
			if le, ok := err.(*LoadError); ok {
				le.File = entry.Name()
				return nil, le
			}
			return nil, err
		}

		scenarios = append(scenarios, sc)
	}

	return scenarios, nil
}
