// Package notify delivers a message to a list of recipients, in order,
// with pacing between sends and per-recipient error containment.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Sender delivers one message to one chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// DisableFunc turns off future deliveries for a chat. The worker calls
// it when a send fails with ErrPermanentlyDenied.
type DisableFunc func(ctx context.Context, chatID int64) error

// Options tunes Worker behavior.
type Options struct {
	// PaceDelay is the minimum gap between consecutive sends.
	PaceDelay time.Duration
	// MaxRateLimitWait caps how long the worker honors a platform
	// retry-after hint. A hint above the cap fails the recipient
	// instead of stalling the whole run.
	MaxRateLimitWait time.Duration
}

// DefaultOptions returns pacing settings safe for bulk delivery.
func DefaultOptions() Options {
	return Options{
		PaceDelay:        100 * time.Millisecond,
		MaxRateLimitWait: time.Hour,
	}
}

// Worker sends a message to many recipients sequentially. One failed
// recipient never aborts the run: the failure is counted and the run
// moves on.
type Worker struct {
	sender  Sender
	disable DisableFunc
	limiter *rate.Limiter
	maxWait time.Duration
	log     *slog.Logger

	// sleep is replaced in tests to avoid real waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewWorker builds a Worker. disable may be nil when the caller has no
// way to switch recipients off.
func NewWorker(sender Sender, disable DisableFunc, opts Options, log *slog.Logger) *Worker {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.PaceDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.PaceDelay), 1)
	}
	maxWait := opts.MaxRateLimitWait
	if maxWait <= 0 {
		maxWait = DefaultOptions().MaxRateLimitWait
	}
	return &Worker{
		sender:  sender,
		disable: disable,
		limiter: limiter,
		maxWait: maxWait,
		log:     log,
		sleep:   sleepCtx,
	}
}

// Dispatch sends text to every chat in ids, in the given order, and
// returns how many sends succeeded and how many failed. It stops early
// only when ctx is cancelled; recipients not yet attempted are not
// counted.
func (w *Worker) Dispatch(ctx context.Context, ids []int64, text string) (sent, failed int) {
	for _, chatID := range ids {
		if err := w.limiter.Wait(ctx); err != nil {
			return sent, failed
		}

		if err := w.sendOne(ctx, chatID, text); err != nil {
			if ctx.Err() != nil {
				return sent, failed
			}
			failed++
			w.log.Warn("delivery failed", "chat_id", chatID, "error", err)
			continue
		}
		sent++
	}
	return sent, failed
}

// sendOne attempts one delivery, honoring a single rate-limit retry and
// disabling permanently denied recipients.
func (w *Worker) sendOne(ctx context.Context, chatID int64, text string) error {
	err := w.sender.Send(ctx, chatID, text)
	if err == nil {
		return nil
	}

	var rl *RateLimitedError
	if errors.As(err, &rl) {
		if rl.Wait > w.maxWait {
			return err
		}
		w.log.Info("rate limited, retrying once", "chat_id", chatID, "wait", rl.Wait)
		if serr := w.sleep(ctx, rl.Wait); serr != nil {
			return serr
		}
		err = w.sender.Send(ctx, chatID, text)
		if err == nil {
			return nil
		}
	}

	if errors.Is(err, ErrPermanentlyDenied) && w.disable != nil {
		if derr := w.disable(ctx, chatID); derr != nil {
			w.log.Error("failed to disable chat", "chat_id", chatID, "error", derr)
		} else {
			w.log.Info("chat disabled after permanent denial", "chat_id", chatID)
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
