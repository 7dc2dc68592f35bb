package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := New(context.Background(), slog.New(slog.DiscardHandler))
	t.Cleanup(s.Stop)
	return s
}

func TestTickerJobRuns(t *testing.T) {
	s := newTestScheduler(t)

	var runs atomic.Int32
	s.AddTickerJob(20*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	}, JobOptions{Name: "test"})
	s.Start()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestTickerJobInitialDelayFiresEarly(t *testing.T) {
	s := newTestScheduler(t)

	var runs atomic.Int32
	// interval long enough that only the initial-delay run can fire
	s.AddTickerJob(time.Minute, func(context.Context) error {
		runs.Add(1)
		return nil
	}, JobOptions{Name: "test", InitialDelay: 10 * time.Millisecond})
	s.Start()

	assert.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSkipIfRunningDropsOverlap(t *testing.T) {
	s := newTestScheduler(t)

	var (
		started atomic.Int32
		release = make(chan struct{})
	)
	s.AddTickerJob(10*time.Millisecond, func(ctx context.Context) error {
		started.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}, JobOptions{Name: "slow", OverlapPolicy: SkipIfRunning})
	s.Start()

	// let several ticks pass while the first run is stuck
	time.Sleep(100 * time.Millisecond)
	close(release)

	assert.EqualValues(t, 1, started.Load())
}

func TestDelayIfRunningNeverDrops(t *testing.T) {
	s := newTestScheduler(t)

	var (
		finished atomic.Int32
		slowOnce = make(chan struct{}, 1)
	)
	slowOnce <- struct{}{}
	s.AddTickerJob(10*time.Millisecond, func(ctx context.Context) error {
		select {
		case <-slowOnce:
			// first run overruns the interval
			time.Sleep(30 * time.Millisecond)
		default:
		}
		finished.Add(1)
		return nil
	}, JobOptions{Name: "slow", OverlapPolicy: DelayIfRunning})
	s.Start()

	// the delayed run still happens after the slow one finishes
	assert.Eventually(t, func() bool {
		return finished.Load() >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestJobPanicIsRecovered(t *testing.T) {
	s := newTestScheduler(t)

	var runs atomic.Int32
	s.AddTickerJob(10*time.Millisecond, func(context.Context) error {
		if runs.Add(1) == 1 {
			panic("boom")
		}
		return nil
	}, JobOptions{Name: "panicky"})
	s.Start()

	// the job keeps running after a panic
	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestJobErrorDoesNotStopSchedule(t *testing.T) {
	s := newTestScheduler(t)

	var runs atomic.Int32
	s.AddTickerJob(10*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return errors.New("transient")
	}, JobOptions{Name: "failing"})
	s.Start()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestJobTimeoutCancelsContext(t *testing.T) {
	s := newTestScheduler(t)

	done := make(chan error, 1)
	s.AddTickerJob(10*time.Millisecond, func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			done <- ctx.Err()
		case <-time.After(time.Second):
			done <- nil
		}
		return nil
	}, JobOptions{Name: "timed", Timeout: 20 * time.Millisecond})
	s.Start()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("job never observed its timeout")
	}
}

func TestAddCronJobRejectsInvalidSchedule(t *testing.T) {
	s := newTestScheduler(t)

	_, err := s.AddCronJob("not a schedule", func(context.Context) error {
		return nil
	}, JobOptions{Name: "bad"})
	require.Error(t, err)
}

func TestStopWaitsForRunningJob(t *testing.T) {
	s := New(context.Background(), slog.New(slog.DiscardHandler))

	var finished atomic.Bool
	started := make(chan struct{})
	s.AddTickerJob(10*time.Millisecond, func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	}, JobOptions{Name: "slow"})
	s.Start()

	<-started
	s.Stop()
	assert.True(t, finished.Load())
}

func TestStopContextHonorsDeadline(t *testing.T) {
	s := New(context.Background(), slog.New(slog.DiscardHandler))

	release := make(chan struct{})
	started := make(chan struct{})
	s.AddTickerJob(10*time.Millisecond, func(context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}, JobOptions{Name: "stuck"})
	s.Start()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := s.StopContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}
