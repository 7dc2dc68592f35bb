package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kalimerabot/internal/domain"
	"kalimerabot/internal/platform/sqlite"
	"kalimerabot/migrations"
)

// SQLiteStore is the default Store backed by an embedded SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path, applies pragmas and
// migrations, and returns a ready store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sqlite.NewDB(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(db, migrations.FS, "sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an already opened and migrated database. Used by
// tests that manage the connection themselves.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) UpsertEnabled(ctx context.Context, chatID int64, enabled bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chats (chat_id, enabled)
		VALUES (?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET enabled = excluded.enabled`,
		chatID, boolToInt(enabled),
	)
	if err != nil {
		return fmt.Errorf("upsert enabled: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpsertSchedule(ctx context.Context, chatID int64, day, hour, minute int) error {
	if err := validateSchedule(day, hour, minute); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chats (chat_id, enabled, dow, hour, minute)
		VALUES (?, 1, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			enabled = 1,
			dow     = excluded.dow,
			hour    = excluded.hour,
			minute  = excluded.minute`,
		chatID, day, hour, minute,
	)
	if err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSchedule(ctx context.Context, chatID int64) (domain.ScheduleRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT chat_id, enabled, dow, hour, minute
		FROM chats WHERE chat_id = ?`,
		chatID,
	)
	var (
		rec        domain.ScheduleRecord
		enabledInt int
	)
	if err := row.Scan(&rec.ChatID, &enabledInt, &rec.Day, &rec.Hour, &rec.Minute); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ScheduleRecord{}, ErrNotFound
		}
		return domain.ScheduleRecord{}, fmt.Errorf("get schedule: %w", err)
	}
	rec.Enabled = enabledInt != 0
	return rec, nil
}

func (s *SQLiteStore) ListEnabled(ctx context.Context) ([]int64, error) {
	return s.listIDs(ctx, `SELECT chat_id FROM chats WHERE enabled = 1 ORDER BY chat_id`)
}

func (s *SQLiteStore) ListDue(ctx context.Context, day, hour, minute int) ([]int64, error) {
	return s.listIDs(ctx, `
		SELECT chat_id FROM chats
		WHERE enabled = 1 AND dow = ? AND hour = ? AND minute = ?
		ORDER BY chat_id`,
		day, hour, minute,
	)
}

func (s *SQLiteStore) Counts(ctx context.Context) (enabled, total int, err error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(enabled), 0) FROM chats`)
	if err := row.Scan(&total, &enabled); err != nil {
		return 0, 0, fmt.Errorf("counts: %w", err)
	}
	return enabled, total, nil
}

func (s *SQLiteStore) listIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan chat id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return ids, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
