// Command acwatch-test runs conformance scenarios against the AC loss
// monitor.
//
// Each scenario drives a simulated GPIO line along a timed script and
// checks the monitor's end state: final state, number of shutdown
// invocations, helper arguments, and counters. The built-in scenarios
// cover the debounce contract; additional ones can be loaded from a
// directory.
//
// Usage:
//
//	acwatch-test [flags] [name-pattern]
//
// Flags:
//
//	-scenarios string   Directory of scenario YAML files (default: built-in)
//	-timeout duration   Overall run timeout (default 2m)
//	-verbose            Show every check, not just failures
//	-json               Output results as JSON
//	-junit              Output results as JUnit XML
//
// Examples:
//
//	# Run the built-in conformance scenarios
//	acwatch-test
//
//	# Run custom scenarios with full check output
//	acwatch-test -scenarios ./scenarios -verbose
//
//	# Run only the debounce-abort scenarios
//	acwatch-test restored
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/acwatch/acwatch-go/internal/scenario"
)

var (
	scenarioDir = flag.String("scenarios", "", "Directory of scenario YAML files (default: built-in)")
	timeout     = flag.Duration("timeout", 2*time.Minute, "Overall run timeout")
	verbose     = flag.Bool("verbose", false, "Show every check, not just failures")
	jsonOut     = flag.Bool("json", false, "Output results as JSON")
	junitOut    = flag.Bool("junit", false, "Output results as JUnit XML")
)

func main() {
	flag.Parse()

	pattern := ""
	if flag.NArg() > 0 {
		pattern = flag.Arg(0)
	}

	scenarios, err := loadScenarios()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if pattern != "" {
		var matched []*scenario.Scenario
		for _, sc := range scenarios {
			if strings.Contains(sc.Name, pattern) {
				matched = append(matched, sc)
			}
		}
		scenarios = matched
	}

	if len(scenarios) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no scenarios matched")
		os.Exit(1)
	}

	outputFormat := "text"
	if *jsonOut {
		outputFormat = "json"
	} else if *junitOut {
		outputFormat = "junit"
	}

	if outputFormat == "text" {
		log.SetFlags(log.Ltime)
		log.Printf("AC loss monitor conformance run")
		log.Printf("Scenarios: %d", len(scenarios))
		if pattern != "" {
			log.Printf("Pattern: %s", pattern)
		}
		log.Println()
	}

	var logger *slog.Logger
	if *verbose && outputFormat == "text" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	runner := scenario.NewRunner(scenario.RunnerConfig{Logger: logger})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	suite := runner.RunSuite(ctx, scenarios)

	var rep scenario.Reporter
	switch outputFormat {
	case "json":
		rep = scenario.NewJSONReporter(os.Stdout, true)
	case "junit":
		rep = scenario.NewJUnitReporter(os.Stdout)
	default:
		rep = scenario.NewTextReporter(os.Stdout, *verbose)
	}
	rep.ReportSuite(suite)

	if suite.FailCount > 0 {
		os.Exit(1)
	}
}

func loadScenarios() ([]*scenario.Scenario, error) {
	if *scenarioDir != "" {
		return scenario.LoadDir(*scenarioDir)
	}
	return scenario.Builtin()
}
