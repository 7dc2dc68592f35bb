package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSender returns queued errors per chat, then succeeds.
type scriptedSender struct {
	errs  map[int64][]error
	calls []int64
}

func (s *scriptedSender) Send(_ context.Context, chatID int64, _ string) error {
	s.calls = append(s.calls, chatID)
	q := s.errs[chatID]
	if len(q) == 0 {
		return nil
	}
	err := q[0]
	s.errs[chatID] = q[1:]
	return err
}

func newTestWorker(s Sender, disable DisableFunc) (*Worker, *[]time.Duration) {
	w := NewWorker(s, disable, Options{PaceDelay: 0, MaxRateLimitWait: time.Hour}, slog.New(slog.DiscardHandler))
	var slept []time.Duration
	w.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return w, &slept
}

func TestDispatchSendsInOrder(t *testing.T) {
	s := &scriptedSender{}
	w, _ := newTestWorker(s, nil)

	sent, failed := w.Dispatch(context.Background(), []int64{10, 20, 30}, "καλημέρα")

	assert.Equal(t, 3, sent)
	assert.Equal(t, 0, failed)
	assert.Equal(t, []int64{10, 20, 30}, s.calls)
}

func TestDispatchDisablesPermanentlyDeniedChat(t *testing.T) {
	s := &scriptedSender{errs: map[int64][]error{
		20: {ErrPermanentlyDenied},
	}}
	var disabled []int64
	w, _ := newTestWorker(s, func(_ context.Context, chatID int64) error {
		disabled = append(disabled, chatID)
		return nil
	})

	sent, failed := w.Dispatch(context.Background(), []int64{10, 20, 30}, "καλημέρα")

	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []int64{20}, disabled)
	// the denied recipient never stops the rest of the run
	assert.Equal(t, []int64{10, 20, 30}, s.calls)
}

func TestDispatchRetriesOnceAfterRateLimit(t *testing.T) {
	s := &scriptedSender{errs: map[int64][]error{
		10: {&RateLimitedError{Wait: 2 * time.Second}},
	}}
	w, slept := newTestWorker(s, nil)

	sent, failed := w.Dispatch(context.Background(), []int64{10}, "καλημέρα")

	assert.Equal(t, 1, sent)
	assert.Equal(t, 0, failed)
	require.Len(t, *slept, 1)
	assert.Equal(t, 2*time.Second, (*slept)[0])
	assert.Equal(t, []int64{10, 10}, s.calls)
}

func TestDispatchFailsAfterSecondRateLimit(t *testing.T) {
	s := &scriptedSender{errs: map[int64][]error{
		10: {&RateLimitedError{Wait: time.Second}, &RateLimitedError{Wait: time.Second}},
	}}
	w, slept := newTestWorker(s, nil)

	sent, failed := w.Dispatch(context.Background(), []int64{10, 20}, "καλημέρα")

	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, failed)
	// only one wait: the retry is attempted once, not in a loop
	assert.Len(t, *slept, 1)
	assert.Equal(t, []int64{10, 10, 20}, s.calls)
}

func TestDispatchSkipsRetryWhenWaitExceedsCap(t *testing.T) {
	s := &scriptedSender{errs: map[int64][]error{
		10: {&RateLimitedError{Wait: 3 * time.Hour}},
	}}
	w, slept := newTestWorker(s, nil)

	sent, failed := w.Dispatch(context.Background(), []int64{10}, "καλημέρα")

	assert.Equal(t, 0, sent)
	assert.Equal(t, 1, failed)
	assert.Empty(t, *slept)
	assert.Equal(t, []int64{10}, s.calls)
}

func TestDispatchCountsTransientFailureAndContinues(t *testing.T) {
	s := &scriptedSender{errs: map[int64][]error{
		20: {errors.New("connection reset")},
	}}
	w, _ := newTestWorker(s, nil)

	sent, failed := w.Dispatch(context.Background(), []int64{10, 20, 30}, "καλημέρα")

	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)
}

func TestDispatchStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &scriptedSender{}
	w, _ := newTestWorker(s, nil)

	sent, failed := w.Dispatch(ctx, []int64{10, 20, 30}, "καλημέρα")

	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, failed)
	assert.Empty(t, s.calls)
}

func TestDispatchCountsFailureWhenDisableErrors(t *testing.T) {
	s := &scriptedSender{errs: map[int64][]error{
		10: {ErrPermanentlyDenied},
	}}
	w, _ := newTestWorker(s, func(context.Context, int64) error {
		return errors.New("store unavailable")
	})

	sent, failed := w.Dispatch(context.Background(), []int64{10, 20}, "καλημέρα")

	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, failed)
}
