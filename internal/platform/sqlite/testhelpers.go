package sqlite

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"
)

// NewTestDB creates an in-memory database for a test and closes it on
// cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewInMemoryDB(context.Background())
	if err != nil {
		t.Fatalf("create in-memory test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// MustMigrate applies migrations to a test database and fails the test on
// error.
func MustMigrate(t *testing.T, db *sql.DB, fsys fs.FS, dir string) {
	t.Helper()
	if err := Migrate(db, fsys, dir); err != nil {
		t.Fatalf("apply test migrations: %v", err)
	}
}
