// Package scheduler runs periodic jobs: fixed-interval ticker jobs and
// cron-expression jobs, with overlap control and panic recovery.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is a unit of scheduled work.
type JobFunc func(ctx context.Context) error

// CronJobID identifies a registered cron job.
type CronJobID = cron.EntryID

// OverlapPolicy controls what happens when a job fires while the
// previous run is still going.
type OverlapPolicy int

const (
	// AllowOverlap runs invocations concurrently.
	AllowOverlap OverlapPolicy = iota
	// SkipIfRunning drops the new invocation.
	SkipIfRunning
	// DelayIfRunning waits for the previous run to finish, then runs.
	// Nothing is dropped, only delayed.
	DelayIfRunning
)

// JobOptions tunes a single job.
type JobOptions struct {
	// Name appears in logs.
	Name string
	// InitialDelay schedules one extra run shortly after Start, so a
	// ticker job does not wait a full interval before its first run.
	// Zero means no initial run.
	InitialDelay time.Duration
	// Timeout bounds each run. Zero means no limit.
	Timeout       time.Duration
	OverlapPolicy OverlapPolicy
}

type jobWrapper struct {
	job     JobFunc
	options JobOptions
	running sync.Mutex
}

// cronLogger adapts the cron library's logger to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{"error", err}, keysAndValues...)
	l.logger.Error(msg, args...)
}

// Scheduler owns all periodic jobs of the application.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a scheduler bound to parentCtx: cancelling it stops all
// jobs.
func New(parentCtx context.Context, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(parentCtx)
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger{logger: logger.With("component", "cron")}),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddCronJob registers a job on a standard 5-field cron schedule, for
// example "0 9 * * *" for every day at 09:00.
func (s *Scheduler) AddCronJob(schedule string, job JobFunc, opts JobOptions) (CronJobID, error) {
	wrapper := &jobWrapper{job: job, options: opts}

	var chain cron.Chain
	switch opts.OverlapPolicy {
	case SkipIfRunning:
		chain = cron.NewChain(cron.SkipIfStillRunning(cronLogger{logger: s.logger}))
	case DelayIfRunning:
		chain = cron.NewChain(cron.DelayIfStillRunning(cronLogger{logger: s.logger}))
	default:
		chain = cron.NewChain()
	}

	id, err := s.cron.AddJob(schedule, chain.Then(cron.FuncJob(func() {
		s.run(wrapper)
	})))
	if err != nil {
		return 0, err
	}
	s.logger.Info("cron job added", "schedule", schedule, "name", opts.Name)
	return id, nil
}

// AddTickerJob registers a job that runs every interval.
func (s *Scheduler) AddTickerJob(interval time.Duration, job JobFunc, opts JobOptions) {
	wrapper := &jobWrapper{job: job, options: opts}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if opts.InitialDelay > 0 {
			select {
			case <-time.After(opts.InitialDelay):
				s.run(wrapper)
			case <-s.ctx.Done():
				return
			}
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.run(wrapper)
			case <-s.ctx.Done():
				s.logger.Debug("ticker job stopped", "name", opts.Name)
				return
			}
		}
	}()

	s.logger.Info("ticker job added", "interval", interval, "name", opts.Name)
}

// Start begins executing registered cron jobs. Ticker jobs run as soon
// as they are added.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.logger.Info("starting scheduler")
		s.cron.Start()
	})
}

// Stop cancels all jobs and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	s.stopOnce.Do(func() {
		<-s.cron.Stop().Done()
		s.wg.Wait()
		s.logger.Info("scheduler stopped")
	})
}

// StopContext is Stop with a deadline. The shutdown still completes in
// the background when the deadline is exceeded.
func (s *Scheduler) StopContext(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.stopOnce.Do(func() {
			<-s.cron.Stop().Done()
			s.wg.Wait()
		})
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop deadline exceeded")
		return ctx.Err()
	}
}

// run executes one invocation, applying overlap policy, timeout and
// panic recovery.
func (s *Scheduler) run(wrapper *jobWrapper) {
	name := wrapper.options.Name
	if name == "" {
		name = "unnamed"
	}

	switch wrapper.options.OverlapPolicy {
	case SkipIfRunning:
		if !wrapper.running.TryLock() {
			s.logger.Debug("skipping job, previous run still going", "name", name)
			return
		}
		defer wrapper.running.Unlock()
	case DelayIfRunning:
		wrapper.running.Lock()
		defer wrapper.running.Unlock()
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panicked", "name", name, "panic", r)
		}
	}()

	ctx := s.ctx
	if wrapper.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wrapper.options.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := wrapper.job(ctx); err != nil {
		s.logger.Error("job failed", "name", name, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debug("job completed", "name", name, "duration", time.Since(start))
}
