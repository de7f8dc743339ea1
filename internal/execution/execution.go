// Package execution runs candidate code against test cases through an
// external sandbox. The sandbox being down must never block a coding
// submission, so a disabled runner reporting ErrUnavailable is part of the
// contract; callers degrade to a quality-only verdict.
package execution

import (
	"context"
	"errors"
)

// ErrUnavailable reports that no sandbox is configured or reachable.
var ErrUnavailable = errors.New("code execution unavailable")

// TestCase is one input/expected pair for a coding challenge.
type TestCase struct {
	Input    string `json:"input" mapstructure:"input"`
	Expected string `json:"expected_output" mapstructure:"expected_output"`
}

// TestResult is the outcome of running one test case.
type TestResult struct {
	Input    string `json:"input"`
	Expected string `json:"expected_output"`
	Actual   string `json:"actual_output"`
	Passed   bool   `json:"passed"`
	TimeMS   int    `json:"execution_time_ms,omitempty"`
}

// Runner executes code against test cases.
type Runner interface {
	RunTests(ctx context.Context, code, language string, cases []TestCase) ([]TestResult, error)
}

// Disabled is a Runner for deployments without a sandbox. It always answers
// ErrUnavailable so callers know the tests never ran and can score on their
// quality heuristic alone.
type Disabled struct{}

func (Disabled) RunTests(_ context.Context, _, _ string, _ []TestCase) ([]TestResult, error) {
	return nil, ErrUnavailable
}

// Unexecuted builds one failed placeholder result per test case for
// submissions that never reached a sandbox.
func Unexecuted(cases []TestCase) []TestResult {
	results := make([]TestResult, 0, len(cases))
	for _, tc := range cases {
		results = append(results, TestResult{
			Input:    tc.Input,
			Expected: tc.Expected,
			Actual:   "could not execute",
			Passed:   false,
		})
	}
	return results
}
