package telegram

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalimerabot/internal/notify"
)

func TestClassifySendErrorNil(t *testing.T) {
	assert.NoError(t, ClassifySendError(nil))
}

func TestClassifySendErrorTooManyRequests(t *testing.T) {
	err := ClassifySendError(&bot.TooManyRequestsError{Message: "Too Many Requests", RetryAfter: 7})

	var rl *notify.RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 7*time.Second, rl.Wait)
}

func TestClassifySendErrorForbidden(t *testing.T) {
	err := ClassifySendError(fmt.Errorf("send message: %w", bot.ErrorForbidden))
	assert.ErrorIs(t, err, notify.ErrPermanentlyDenied)
}

func TestClassifySendErrorTransientPassesThrough(t *testing.T) {
	cause := errors.New("connection reset")
	err := ClassifySendError(cause)

	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, notify.ErrPermanentlyDenied)
}
