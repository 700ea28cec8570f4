package utils

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: Discard()}

	calls := 0
	err := r.Do(context.Background(), "flaky", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWrapsLastError(t *testing.T) {
	sentinel := errors.New("still broken")
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: Discard()}

	err := r.Do(context.Background(), "fetch", func(context.Context) error { return sentinel })

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "fetch failed after 2 attempts")
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour}

	calls := 0
	err := r.Do(ctx, "slow", func(context.Context) error {
		calls++
		cancel()
		return errors.New("nope")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithLevel(&buf, "warn").With("run", "abc")

	l.Info("hidden %d", 1)
	l.Warn("[fetch] shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[fetch] shown 2")
	assert.Contains(t, out, "run=abc")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "12,345", FormatInt(12345))
	assert.Equal(t, "7", FormatInt(7))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
}
