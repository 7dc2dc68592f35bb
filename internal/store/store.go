// Package store persists one ScheduleRecord per recipient and exposes
// the query/upsert contract everything else goes through. No other
// component caches or mutates records directly.
package store

import (
	"context"
	"errors"
	"fmt"

	"kalimerabot/internal/domain"
)

// ErrNotFound is returned by GetSchedule when the recipient has no record.
var ErrNotFound = errors.New("schedule not found")

// Store is the schedule repository contract. All operations are atomic
// with respect to a single record; storage failures are returned to the
// caller, never swallowed.
type Store interface {
	// UpsertEnabled inserts a default record (Monday 08:00) with the given
	// flag if none exists, otherwise updates only the enabled flag.
	UpsertEnabled(ctx context.Context, chatID int64, enabled bool) error

	// UpsertSchedule inserts or overwrites the day/hour/minute triple and
	// always sets enabled to true.
	UpsertSchedule(ctx context.Context, chatID int64, day, hour, minute int) error

	// GetSchedule returns the recipient's record or ErrNotFound.
	GetSchedule(ctx context.Context, chatID int64) (domain.ScheduleRecord, error)

	// ListEnabled returns the chat IDs of all enabled recipients.
	ListEnabled(ctx context.Context) ([]int64, error)

	// ListDue returns enabled recipients whose stored triple matches
	// (day, hour, minute) exactly.
	ListDue(ctx context.Context, day, hour, minute int) ([]int64, error)

	// Counts returns (enabled, total) recipient counts.
	Counts(ctx context.Context) (enabled, total int, err error)

	// Ping verifies the backing database still answers queries.
	Ping(ctx context.Context) error

	Close() error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

func validateSchedule(day, hour, minute int) error {
	if !domain.ValidSchedule(day, hour, minute) {
		return fmt.Errorf("invalid schedule triple (%d, %d, %d)", day, hour, minute)
	}
	return nil
}
