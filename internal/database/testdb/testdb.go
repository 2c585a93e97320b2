// Package testdb provides a migrated SQLite database for repository tests.
package testdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/robalobadob/flashcards/apps/go-server/internal/database"
)

// New opens a fresh database under t.TempDir() and applies all migrations.
// The database is closed via t.Cleanup.
func New(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
