package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WaitForDB blocks until the database at dsn answers a ping, retrying
// with exponential backoff. Returns an error when the context expires
// first. Useful at startup when the database container may still be
// coming up.
func WaitForDB(ctx context.Context, dsn string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	interval := time.Second
	const maxInterval = 30 * time.Second

	for attempt := 1; ; attempt++ {
		err := ping(ctx, dsn)
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("database not available after %d attempts: %w", attempt, err)
		case <-time.After(interval):
		}

		if interval *= 2; interval > maxInterval {
			interval = maxInterval
		}
	}
}

// HealthCheckPool verifies that an existing pool can serve queries.
func HealthCheckPool(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var one int
	if err := pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("health query failed: %w", err)
	}
	return nil
}

func ping(ctx context.Context, dsn string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}
