package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Reporter formats and outputs scenario results.
type Reporter interface {
	// ReportSuite reports the results of a scenario run.
	ReportSuite(suite *SuiteResult)

	// ReportScenario reports a single scenario result.
	ReportScenario(result *Result)
}

// TextReporter outputs human-readable text reports.
type TextReporter struct {
	writer  io.Writer
	verbose bool
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(w io.Writer, verbose bool) *TextReporter {
	return &TextReporter{
		writer:  w,
		verbose: verbose,
	}
}

// ReportSuite reports suite results in text format.
func (r *TextReporter) ReportSuite(suite *SuiteResult) {
	for _, result := range suite.Results {
		r.ReportScenario(result)
	}

	fmt.Fprintf(r.writer, "\n--- Summary ---\n")
	fmt.Fprintf(r.writer, "Total:    %d\n", len(suite.Results))
	fmt.Fprintf(r.writer, "Passed:   %d\n", suite.PassCount)
	fmt.Fprintf(r.writer, "Failed:   %d\n", suite.FailCount)
	fmt.Fprintf(r.writer, "Duration: %s\n", suite.Duration.Round(time.Millisecond))
}

// ReportScenario reports a single scenario result in text format.
func (r *TextReporter) ReportScenario(result *Result) {
	status := "PASS"
	if !result.Passed {
		status = "FAIL"
	}

	fmt.Fprintf(r.writer, "[%s] %s (%s)\n",
		status, result.Scenario.Name, result.Duration.Round(time.Millisecond))

	if result.Error != nil {
		fmt.Fprintf(r.writer, "       Error: %v\n", result.Error)
	}

	for _, check := range result.Checks {
		if check.Passed && !r.verbose {
			continue
		}
		checkStatus := "OK"
		if !check.Passed {
			checkStatus = "FAILED"
		}
		fmt.Fprintf(r.writer, "       [%s] %s: %s\n", checkStatus, check.Key, check.Message)
	}
}

// JSONReporter outputs JSON-formatted reports.
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: w,
		pretty: pretty,
	}
}

// JSONSuiteResult is the JSON representation of a scenario run.
type JSONSuiteResult struct {
	Total     int                  `json:"total"`
	Passed    int                  `json:"passed"`
	Failed    int                  `json:"failed"`
	Duration  string               `json:"duration"`
	Scenarios []JSONScenarioResult `json:"scenarios"`
}

// JSONScenarioResult is the JSON representation of a single result.
type JSONScenarioResult struct {
	Name       string      `json:"name"`
	Status     string      `json:"status"`
	Duration   string      `json:"duration"`
	FinalState string      `json:"final_state,omitempty"`
	Shutdowns  int         `json:"shutdowns"`
	Error      string      `json:"error,omitempty"`
	Checks     []JSONCheck `json:"checks,omitempty"`
}

// JSONCheck is the JSON representation of one evaluated expectation.
type JSONCheck struct {
	Key      string      `json:"key"`
	Passed   bool        `json:"passed"`
	Expected interface{} `json:"expected"`
	Actual   interface{} `json:"actual"`
	Message  string      `json:"message"`
}

// ReportSuite reports suite results in JSON format.
func (r *JSONReporter) ReportSuite(suite *SuiteResult) {
	js := JSONSuiteResult{
		Total:     len(suite.Results),
		Passed:    suite.PassCount,
		Failed:    suite.FailCount,
		Duration:  suite.Duration.Round(time.Millisecond).String(),
		Scenarios: make([]JSONScenarioResult, 0, len(suite.Results)),
	}

	for _, result := range suite.Results {
		js.Scenarios = append(js.Scenarios, r.scenarioToJSON(result))
	}

	r.writeJSON(js)
}

// ReportScenario reports a single scenario result in JSON format.
func (r *JSONReporter) ReportScenario(result *Result) {
	r.writeJSON(r.scenarioToJSON(result))
}

func (r *JSONReporter) scenarioToJSON(result *Result) JSONScenarioResult {
	status := "passed"
	if !result.Passed {
		status = "failed"
	}

	js := JSONScenarioResult{
		Name:       result.Scenario.Name,
		Status:     status,
		Duration:   result.Duration.Round(time.Millisecond).String(),
		FinalState: result.FinalState,
		Shutdowns:  result.Shutdowns,
	}

	if result.Error != nil {
		js.Error = result.Error.Error()
	}

	for _, check := range result.Checks {
		js.Checks = append(js.Checks, JSONCheck{
			Key:      check.Key,
			Passed:   check.Passed,
			Expected: check.Expected,
			Actual:   check.Actual,
			Message:  check.Message,
		})
	}

	return js
}

func (r *JSONReporter) writeJSON(v interface{}) {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		fmt.Fprintf(r.writer, `{"error": "failed to marshal: %s"}`, err)
		return
	}

	fmt.Fprintln(r.writer, string(data))
}

// JUnitReporter outputs JUnit XML for CI integration.
type JUnitReporter struct {
	writer io.Writer
}

// NewJUnitReporter creates a new JUnit reporter.
func NewJUnitReporter(w io.Writer) *JUnitReporter {
	return &JUnitReporter{writer: w}
}

// ReportSuite reports suite results in JUnit XML format.
func (r *JUnitReporter) ReportSuite(suite *SuiteResult) {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString("\n")

	fmt.Fprintf(&b, `<testsuite name="acwatch-scenarios" tests="%d" failures="%d" time="%.3f">`,
		len(suite.Results),
		suite.FailCount,
		suite.Duration.Seconds())
	b.WriteString("\n")

	for _, result := range suite.Results {
		fmt.Fprintf(&b, `  <testcase name="%s" time="%.3f">`,
			escapeXML(result.Scenario.Name),
			result.Duration.Seconds())
		b.WriteString("\n")

		if !result.Passed {
			msg := "scenario failed"
			if result.Error != nil {
				msg = result.Error.Error()
			}
			fmt.Fprintf(&b, `    <failure message="%s">`, escapeXML(msg))
			b.WriteString("\n      <![CDATA[")
			for _, check := range result.Checks {
				if !check.Passed {
					fmt.Fprintf(&b, "%s: %s\n", check.Key, check.Message)
				}
			}
			b.WriteString("]]>\n")
			b.WriteString("    </failure>\n")
		}

		b.WriteString("  </testcase>\n")
	}

	b.WriteString("</testsuite>\n")

	fmt.Fprint(r.writer, b.String())
}

// ReportScenario reports a single scenario in JUnit format.
func (r *JUnitReporter) ReportScenario(result *Result) {
	suite := &SuiteResult{
		Results:  []*Result{result},
		Duration: result.Duration,
	}
	if result.Passed {
		suite.PassCount = 1
	} else {
		suite.FailCount = 1
	}
	r.ReportSuite(suite)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
