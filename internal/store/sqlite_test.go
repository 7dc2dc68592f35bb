package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalimerabot/internal/domain"
	"kalimerabot/internal/platform/sqlite"
	"kalimerabot/migrations"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db := sqlite.NewTestDB(t)
	sqlite.MustMigrate(t, db, migrations.FS, "sqlite")
	return NewSQLiteStore(db)
}

func TestGetScheduleUnknownChat(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSchedule(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertScheduleInsertsAndEnables(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertSchedule(ctx, 42, domain.Sunday, 23, 58))

	rec, err := s.GetSchedule(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleRecord{ChatID: 42, Enabled: true, Day: domain.Sunday, Hour: 23, Minute: 58}, rec)
}

func TestUpsertScheduleOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertSchedule(ctx, 42, domain.Monday, 8, 0))
	require.NoError(t, s.UpsertSchedule(ctx, 42, domain.Wednesday, 18, 30))

	rec, err := s.GetSchedule(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.Wednesday, rec.Day)
	assert.Equal(t, 18, rec.Hour)
	assert.Equal(t, 30, rec.Minute)
}

func TestUpsertScheduleReenablesStoppedChat(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertSchedule(ctx, 42, domain.Monday, 8, 0))
	require.NoError(t, s.UpsertEnabled(ctx, 42, false))
	require.NoError(t, s.UpsertSchedule(ctx, 42, domain.Monday, 9, 0))

	rec, err := s.GetSchedule(ctx, 42)
	require.NoError(t, err)
	assert.True(t, rec.Enabled)
}

func TestUpsertScheduleRejectsInvalidValues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, s.UpsertSchedule(ctx, 1, 7, 8, 0))
	assert.Error(t, s.UpsertSchedule(ctx, 1, -1, 8, 0))
	assert.Error(t, s.UpsertSchedule(ctx, 1, 0, 24, 0))
	assert.Error(t, s.UpsertSchedule(ctx, 1, 0, 8, 60))
}

func TestUpsertEnabledInsertsDefaultScheduleRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// disabling a chat never seen before still records it
	require.NoError(t, s.UpsertEnabled(ctx, 7, false))

	rec, err := s.GetSchedule(ctx, 7)
	require.NoError(t, err)
	assert.False(t, rec.Enabled)
	assert.Equal(t, domain.DefaultDay, rec.Day)
	assert.Equal(t, domain.DefaultHour, rec.Hour)
	assert.Equal(t, domain.DefaultMinute, rec.Minute)
}

func TestUpsertEnabledKeepsSchedule(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertSchedule(ctx, 42, domain.Friday, 7, 15))
	require.NoError(t, s.UpsertEnabled(ctx, 42, false))
	require.NoError(t, s.UpsertEnabled(ctx, 42, true))

	rec, err := s.GetSchedule(ctx, 42)
	require.NoError(t, err)
	assert.True(t, rec.Enabled)
	assert.Equal(t, domain.Friday, rec.Day)
	assert.Equal(t, 7, rec.Hour)
	assert.Equal(t, 15, rec.Minute)
}

func TestListEnabledExcludesStopped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertSchedule(ctx, 3, domain.Monday, 8, 0))
	require.NoError(t, s.UpsertSchedule(ctx, 1, domain.Monday, 8, 0))
	require.NoError(t, s.UpsertSchedule(ctx, 2, domain.Monday, 8, 0))
	require.NoError(t, s.UpsertEnabled(ctx, 2, false))

	ids, err := s.ListEnabled(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)
}

func TestListDueMatchesExactMinuteOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertSchedule(ctx, 1, domain.Sunday, 23, 58))
	require.NoError(t, s.UpsertSchedule(ctx, 2, domain.Sunday, 23, 59))
	require.NoError(t, s.UpsertSchedule(ctx, 3, domain.Monday, 23, 58))
	require.NoError(t, s.UpsertSchedule(ctx, 4, domain.Sunday, 23, 58))
	require.NoError(t, s.UpsertEnabled(ctx, 4, false))

	ids, err := s.ListDue(ctx, domain.Sunday, 23, 58)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	enabled, total, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, enabled)
	assert.Zero(t, total)

	require.NoError(t, s.UpsertSchedule(ctx, 1, domain.Monday, 8, 0))
	require.NoError(t, s.UpsertSchedule(ctx, 2, domain.Monday, 8, 0))
	require.NoError(t, s.UpsertEnabled(ctx, 2, false))

	enabled, total, err = s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, enabled)
	assert.Equal(t, 2, total)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestMigrationBackfillsLegacySchema(t *testing.T) {
	db := sqlite.NewTestDB(t)
	ctx := context.Background()

	// a database from before schedules existed: only chat_id/enabled
	_, err := db.ExecContext(ctx, `CREATE TABLE chats (chat_id INTEGER PRIMARY KEY, enabled INTEGER NOT NULL DEFAULT 1)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO chats (chat_id, enabled) VALUES (99, 1)`)
	require.NoError(t, err)

	sqlite.MustMigrate(t, db, migrations.FS, "sqlite")

	s := NewSQLiteStore(db)
	rec, err := s.GetSchedule(ctx, 99)
	require.NoError(t, err)
	assert.True(t, rec.Enabled)
	assert.Equal(t, domain.DefaultDay, rec.Day)
	assert.Equal(t, domain.DefaultHour, rec.Hour)
	assert.Equal(t, domain.DefaultMinute, rec.Minute)
}
