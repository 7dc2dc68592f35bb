// Package retry runs a function until it succeeds, with exponential
// backoff between attempts. Used at startup for dependencies that may
// not be up yet, like the database.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Config defines retry behavior.
type Config struct {
	// MaxAttempts includes the first attempt.
	MaxAttempts int
	// InitialDelay is the wait after the first failure.
	InitialDelay time.Duration
	// MaxDelay caps the backoff.
	MaxDelay time.Duration
	// Multiplier grows the delay after each failure.
	Multiplier float64
	// Jitter randomizes each delay by up to ±25%.
	Jitter bool
	// OnRetry is called before each wait, for logging.
	OnRetry func(attempt int, err error, nextDelay time.Duration)
}

// DefaultConfig retries five times over roughly half a minute.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as not worth retrying. Do returns it
// immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetriesExceededError is returned when all attempts failed.
type RetriesExceededError struct {
	LastError error
	Attempts  int
}

func (e *RetriesExceededError) Error() string {
	return fmt.Sprintf("retry: giving up after %d attempts: %v", e.Attempts, e.LastError)
}

func (e *RetriesExceededError) Unwrap() error { return e.LastError }

// Do runs fn until it succeeds, the error is marked Permanent, the
// context ends, or attempts run out.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 2.0
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := delay
		if cfg.Jitter {
			spread := int64(wait / 4)
			if spread > 0 {
				wait += time.Duration(rand.Int63n(2*spread) - spread)
			}
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr, wait)
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return &RetriesExceededError{LastError: lastErr, Attempts: cfg.MaxAttempts}
}
