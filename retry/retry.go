package retry

import (
	"context"
	"time"

	ai "github.com/perolav/grunnlag"
)

// Do executes the given function with retry logic.
// Only errors categorized as transient (see [ai.IsTransient]) are retried;
// permanent errors are returned immediately. Context cancellation is
// respected during backoff waits.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !ai.IsTransient(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxAttempts-1 {
			delay := cfg.Delay(attempt)

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}
