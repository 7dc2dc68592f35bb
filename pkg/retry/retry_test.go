package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	cause := errors.New("still broken")
	calls := 0
	err := Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		return cause
	})

	var exceeded *RetriesExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 3, exceeded.Attempts)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	cause := errors.New("bad credentials")
	calls := 0
	err := Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		return Permanent(cause)
	})

	assert.Equal(t, cause, err)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := fastConfig()
	cfg.InitialDelay = time.Minute // the wait should never finish
	err := Do(ctx, cfg, func(context.Context) error {
		cancel()
		return errors.New("fail then cancel")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoCallsOnRetry(t *testing.T) {
	var attempts []int
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, _ error, _ time.Duration) {
		attempts = append(attempts, attempt)
	}

	_ = Do(context.Background(), cfg, func(context.Context) error {
		return errors.New("always")
	})

	assert.Equal(t, []int{1, 2}, attempts)
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
