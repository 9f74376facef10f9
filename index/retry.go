package index

import (
	"context"
	"time"
)

// DefaultRetryDelays returns the backoff delays for model and download
// retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// RetryFunc is called before each retry with the 2-based attempt number and
// the error of the previous attempt.
type RetryFunc func(attempt int, err error)

// WithRetry runs fn until it succeeds, making one attempt plus one retry per
// delay. The error of the last attempt is returned. Context cancellation
// stops retrying immediately.
func WithRetry[T any](ctx context.Context, delays []time.Duration, onRetry RetryFunc, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		if err := ctx.Err(); err != nil {
			return zero, err
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}
