package index_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lawdit/lawdit/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		v, err := index.WithRetry(context.Background(), delays, nil, func(context.Context) (string, error) {
			calls++
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", v)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var attempts []int
		v, err := index.WithRetry(context.Background(), delays,
			func(attempt int, _ error) { attempts = append(attempts, attempt) },
			func(context.Context) (int, error) {
				calls++
				if calls < 3 {
					return 0, errors.New("rate limited")
				}
				return 42, nil
			})

		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, []int{2, 3}, attempts)
	})

	t.Run("returns last error after all attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := index.WithRetry(context.Background(), delays, nil, func(context.Context) (string, error) {
			calls++
			return "", errors.New("still failing")
		})

		require.EqualError(t, err, "still failing")
		assert.Equal(t, 4, calls, "one attempt plus one per delay")
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := index.WithRetry(ctx, []time.Duration{time.Hour}, nil, func(context.Context) (string, error) {
			calls++
			cancel()
			return "", errors.New("boom")
		})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("default delays are 1s 2s 4s", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, index.DefaultRetryDelays())
	})
}
