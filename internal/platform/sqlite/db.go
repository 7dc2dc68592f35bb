// Package sqlite provides the embedded database used by the default
// store backend: connection setup with sane pragmas, embedded-FS
// migrations, and test helpers.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DBOptions holds SQLite connection settings.
type DBOptions struct {
	// MaxOpenConns caps the pool; SQLite has a single writer so keep low.
	MaxOpenConns int
	MaxIdleConns int
	// PingTimeout bounds the connectivity check at open time.
	PingTimeout time.Duration
	// WALMode enables write-ahead logging.
	WALMode bool
	// ForeignKeys enables foreign key enforcement.
	ForeignKeys bool
	// BusyTimeout is how long a statement waits on SQLITE_BUSY.
	BusyTimeout time.Duration
}

// DefaultDBOptions returns settings tuned for a small embedded bot database.
func DefaultDBOptions() DBOptions {
	return DBOptions{
		MaxOpenConns: 4,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
		WALMode:      true,
		ForeignKeys:  true,
		BusyTimeout:  5 * time.Second,
	}
}

// NewDB opens (or creates) the database at dbPath with default options,
// creating parent directories as needed.
func NewDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	return NewDBWithOptions(ctx, dbPath, DefaultDBOptions())
}

// NewDBWithOptions opens the database with explicit options.
func NewDBWithOptions(ctx context.Context, dbPath string, opts DBOptions) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", buildDSN(dbPath, opts))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := applyPragmas(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	return db, nil
}

// NewInMemoryDB opens an in-memory database for tests. The pool is
// limited to a single connection so every statement sees one schema.
func NewInMemoryDB(ctx context.Context) (*sql.DB, error) {
	opts := DefaultDBOptions()
	opts.WALMode = false // not supported for in-memory databases
	opts.MaxOpenConns = 1
	opts.MaxIdleConns = 1
	return NewDBWithOptions(ctx, ":memory:", opts)
}

func buildDSN(dbPath string, opts DBOptions) string {
	if opts.BusyTimeout > 0 {
		return fmt.Sprintf("%s?_busy_timeout=%d", dbPath, opts.BusyTimeout.Milliseconds())
	}
	return dbPath
}

func applyPragmas(ctx context.Context, db *sql.DB, opts DBOptions) error {
	pragmas := make([]string, 0, 4)
	if opts.ForeignKeys {
		pragmas = append(pragmas, "PRAGMA foreign_keys = ON")
	}
	if opts.WALMode {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	pragmas = append(pragmas, "PRAGMA synchronous = NORMAL")
	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds()))
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("execute %s: %w", p, err)
		}
	}
	return nil
}
