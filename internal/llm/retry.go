package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Retrier re-runs an operation that failed transiently. Parse failures on
// structured output are retried the same way as transport errors since a
// fresh completion may well produce valid output. Configuration errors and
// context cancellation are returned immediately.
type Retrier struct {
	// MaxAttempts is the total number of tries. Values below 1 mean 1.
	MaxAttempts int
	// Backoff maps the just-failed attempt number (1-based) to the wait
	// before the next try. Nil means no waiting.
	Backoff func(attempt int) time.Duration
}

// LinearBackoff waits base after the first failure, 2*base after the
// second, and so on.
func LinearBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * base
	}
}

// Do runs fn until it succeeds or attempts are exhausted.
func (r *Retrier) Do(ctx context.Context, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && r.Backoff != nil {
			if wait := r.Backoff(attempt - 1); wait > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(wait):
				}
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		var ce *ConfigError
		if errors.As(err, &ce) {
			return err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
