package interview

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"hireflow/internal/execution"
)

// Verdict weighting: passing tests dominates, static quality tempers it.
const (
	verdictWeightTests   = 0.7
	verdictWeightQuality = 0.3
)

// EvaluateCoding runs the submission against the challenge's test cases and
// combines the pass rate with a static quality score. A failing sandbox
// degrades to an unexecuted verdict scored on quality alone; it never blocks
// the submission.
func EvaluateCoding(ctx context.Context, runner execution.Runner, log *zap.Logger, challenge *CodingChallenge, code string) CodingVerdict {
	quality := codeQualityScore(code)

	results, err := runner.RunTests(ctx, code, challenge.Language, challenge.TestCases)
	if err == nil && len(results) == 0 {
		err = execution.ErrUnavailable
	}
	if err != nil {
		log.Warn("code execution unavailable, scoring on quality alone",
			zap.String("challenge_id", challenge.ID),
			zap.Error(err),
		)
		return CodingVerdict{
			PassedTests:  0,
			TotalTests:   len(challenge.TestCases),
			TestResults:  execution.Unexecuted(challenge.TestCases),
			QualityScore: quality,
			OverallScore: quality * verdictWeightQuality,
			Unexecuted:   true,
		}
	}

	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}

	passRate := 0.0
	if len(results) > 0 {
		passRate = float64(passed) / float64(len(results))
	}

	return CodingVerdict{
		PassedTests:  passed,
		TotalTests:   len(results),
		TestResults:  results,
		QualityScore: quality,
		OverallScore: passRate*100*verdictWeightTests + quality*verdictWeightQuality,
	}
}

// codeQualityScore is a cheap static heuristic over the raw source: it
// penalizes trivially short or unfinished code and rewards consistent
// indentation. It is deliberately crude; the test pass rate carries the
// verdict.
func codeQualityScore(code string) float64 {
	score := 70.0

	if len(strings.TrimSpace(code)) < 20 {
		score -= 30
	}
	if strings.Contains(strings.ToUpper(code), "TODO") {
		score -= 10
	}

	longLines := false
	indented := false
	for _, line := range strings.Split(code, "\n") {
		if len(line) > 100 {
			longLines = true
		}
		if strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "  ") {
			indented = true
		}
	}
	if longLines {
		score -= 5
	}
	if indented {
		score += 10
	}

	return clampScore(score)
}
