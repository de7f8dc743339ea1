package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type flakyGenerator struct {
	failures int
	calls    []string
}

func (f *flakyGenerator) Model() string { return "primary" }

func (f *flakyGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return f.GenerateWithModel(ctx, f.Model(), prompt)
}

func (f *flakyGenerator) GenerateWithModel(_ context.Context, model, _ string) (string, error) {
	f.calls = append(f.calls, model)
	if len(f.calls) <= f.failures {
		return "", errors.New("overloaded")
	}
	return "ok", nil
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := sleep
	sleep = func(time.Duration) {}
	t.Cleanup(func() { sleep = orig })
}

func TestWithRetryRecovers(t *testing.T) {
	noSleep(t)

	gen := &flakyGenerator{failures: 1}
	wrapped := WithRetry(gen, RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond}, zap.NewNop())

	out, err := wrapped.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(gen.calls) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(gen.calls))
	}
}

func TestWithRetryDegradesModelOnLastAttempt(t *testing.T) {
	noSleep(t)

	gen := &flakyGenerator{failures: 2}
	wrapped := WithRetry(gen, RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		DegradedModel:  "smaller",
	}, zap.NewNop())

	if _, err := wrapped.GenerateContent(context.Background(), "prompt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"primary", "primary", "smaller"}
	for i, model := range want {
		if gen.calls[i] != model {
			t.Fatalf("attempt %d used model %q, want %q", i+1, gen.calls[i], model)
		}
	}
}

func TestWithRetryExhausted(t *testing.T) {
	noSleep(t)

	gen := &flakyGenerator{failures: 10}
	wrapped := WithRetry(gen, RetryPolicy{MaxAttempts: 2, InitialBackoff: time.Millisecond}, zap.NewNop())

	if _, err := wrapped.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error after exhausting attempts")
	}
	if len(gen.calls) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(gen.calls))
	}
}

func TestWithRetrySingleAttemptUnwrapped(t *testing.T) {
	gen := &flakyGenerator{}
	if wrapped := WithRetry(gen, RetryPolicy{MaxAttempts: 1}, zap.NewNop()); wrapped != Generator(gen) {
		t.Fatalf("expected generator to be returned unchanged")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced-no-lang", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"padded", "  {\"a\": 1}  ", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.input); got != tc.want {
				t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	if got := CoerceFloat(float64(82)); got != 82 {
		t.Fatalf("expected 82, got %v", got)
	}
	if got := CoerceFloat("73.5"); got != 73.5 {
		t.Fatalf("expected 73.5, got %v", got)
	}
	if got := CoerceFloat(nil); got == got { // NaN != NaN
		t.Fatalf("expected NaN for nil, got %v", got)
	}
}
