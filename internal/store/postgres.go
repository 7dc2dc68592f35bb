package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kalimerabot/internal/domain"
	"kalimerabot/internal/platform/pg"
	"kalimerabot/migrations"
)

// PostgresStore is the optional Store backend for deployments that
// already run Postgres. Same contract, same schema shape.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database at dsn, verifies the connection,
// applies migrations, and returns a ready store.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pg.NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pg.ApplyMigrations(dsn, migrations.FS, "postgres"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresStore wraps an existing pool. Used by tests.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return pg.HealthCheckPool(ctx, s.pool)
}

func (s *PostgresStore) UpsertEnabled(ctx context.Context, chatID int64, enabled bool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chats (chat_id, enabled)
		VALUES ($1, $2)
		ON CONFLICT (chat_id) DO UPDATE SET enabled = excluded.enabled`,
		chatID, enabled,
	)
	if err != nil {
		return fmt.Errorf("upsert enabled: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertSchedule(ctx context.Context, chatID int64, day, hour, minute int) error {
	if err := validateSchedule(day, hour, minute); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chats (chat_id, enabled, dow, hour, minute)
		VALUES ($1, TRUE, $2, $3, $4)
		ON CONFLICT (chat_id) DO UPDATE SET
			enabled = TRUE,
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

func (s *PostgresStore) GetSchedule(ctx context.Context, chatID int64) (domain.ScheduleRecord, error) {
	var rec domain.ScheduleRecord
	err := s.pool.QueryRow(ctx, `
		SELECT chat_id, enabled, dow, hour, minute
		FROM chats WHERE chat_id = $1`,
		chatID,
	).Scan(&rec.ChatID, &rec.Enabled, &rec.Day, &rec.Hour, &rec.Minute)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ScheduleRecord{}, ErrNotFound
		}
		return domain.ScheduleRecord{}, fmt.Errorf("get schedule: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListEnabled(ctx context.Context) ([]int64, error) {
	return s.listIDs(ctx, `SELECT chat_id FROM chats WHERE enabled ORDER BY chat_id`)
}

func (s *PostgresStore) ListDue(ctx context.Context, day, hour, minute int) ([]int64, error) {
	return s.listIDs(ctx, `
		SELECT chat_id FROM chats
		WHERE enabled AND dow = $1 AND hour = $2 AND minute = $3
		ORDER BY chat_id`,
		day, hour, minute,
	)
}

func (s *PostgresStore) Counts(ctx context.Context) (enabled, total int, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE enabled) FROM chats`,
	).Scan(&total, &enabled)
	if err != nil {
		return 0, 0, fmt.Errorf("counts: %w", err)
	}
	return enabled, total, nil
}

func (s *PostgresStore) listIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.pool.Query(ctx, query, args...)
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
