package ai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hireflow/internal/logger"
)

// RetryPolicy bounds how hard we lean on the reasoning service before giving
// up and letting the caller fall back locally.
type RetryPolicy struct {
	// MaxAttempts counts all attempts, the first one included.
	MaxAttempts int
	// InitialBackoff is the wait before the second attempt; it doubles on
	// each further attempt.
	InitialBackoff time.Duration
	// DegradedModel, when set, replaces the configured model on the final
	// attempt. A smaller tier often answers when the primary is overloaded.
	DegradedModel string
}

// DefaultRetryPolicy is used when configuration does not say otherwise.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialBackoff: 2 * time.Second}
}

type retryGenerator struct {
	gen    ModelGenerator
	policy RetryPolicy
	logger *zap.Logger
}

// WithRetry wraps a generator with the provided retry policy. A policy with
// MaxAttempts below 2 returns the generator unchanged.
func WithRetry(gen ModelGenerator, policy RetryPolicy, log *zap.Logger) Generator {
	if policy.MaxAttempts < 2 {
		return gen
	}
	if policy.InitialBackoff <= 0 {
		policy.InitialBackoff = 2 * time.Second
	}
	return &retryGenerator{gen: gen, policy: policy, logger: log}
}

func (r *retryGenerator) Model() string {
	return r.gen.Model()
}

func (r *retryGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	backoff := r.policy.InitialBackoff

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := waitFor(ctx, backoff); err != nil {
				return "", err
			}
			backoff *= 2
		}

		model := r.gen.Model()
		if attempt == r.policy.MaxAttempts && r.policy.DegradedModel != "" {
			model = r.policy.DegradedModel
		}

		output, err := r.gen.GenerateWithModel(ctx, model, prompt)
		if err == nil {
			return output, nil
		}
		lastErr = err

		r.logger.Warn("reasoning service call failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.policy.MaxAttempts),
			zap.String("model", model),
			zap.String("error", logger.TruncateForLog(err.Error(), 200)),
		)
	}

	return "", lastErr
}

var sleep = time.Sleep

// waitFor sleeps for the given duration but wakes up early when the context
// is cancelled.
func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
