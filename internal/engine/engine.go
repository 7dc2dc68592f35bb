// Package engine matches the wall clock against stored schedules and
// hands due recipients to the dispatcher.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DueLister returns recipients whose schedule matches the given local
// day and time exactly.
type DueLister interface {
	ListDue(ctx context.Context, day, hour, minute int) ([]int64, error)
}

// Dispatcher delivers text to the given chats and reports counts.
type Dispatcher interface {
	Dispatch(ctx context.Context, ids []int64, text string) (sent, failed int)
}

// Engine runs one schedule check per tick. Matching is exact to the
// minute: a tick that lands on 08:01 does not fire 08:00 schedules, and
// missed minutes are never made up later.
type Engine struct {
	store   DueLister
	disp    Dispatcher
	loc     *time.Location
	message string
	log     *slog.Logger

	now func() time.Time // replaced in tests
}

func New(store DueLister, disp Dispatcher, loc *time.Location, message string, log *slog.Logger) *Engine {
	return &Engine{
		store:   store,
		disp:    disp,
		loc:     loc,
		message: message,
		log:     log,
		now:     time.Now,
	}
}

// Tick checks the current minute and dispatches to every chat due now.
// A store failure aborts the tick; delivery failures do not, they are
// contained per recipient by the dispatcher.
func (e *Engine) Tick(ctx context.Context) error {
	now := e.now().In(e.loc)
	day := (int(now.Weekday()) + 6) % 7 // Monday = 0
	hour, minute := now.Hour(), now.Minute()

	ids, err := e.store.ListDue(ctx, day, hour, minute)
	if err != nil {
		return fmt.Errorf("list due chats: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	e.log.Info("schedules due", "count", len(ids), "day", day, "hour", hour, "minute", minute)
	sent, failed := e.disp.Dispatch(ctx, ids, e.message)
	e.log.Info("dispatch finished", "sent", sent, "failed", failed)
	return nil
}
