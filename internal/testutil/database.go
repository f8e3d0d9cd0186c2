package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/database"
)

// SetupTestDB creates a migrated SQLite database in a temporary directory for testing.
// The database is automatically closed and removed when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	if err := database.Migrate(context.Background(), db, zerolog.Nop()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// ClearWatchlist removes the default watchlist rows seeded by the migrations.
func ClearWatchlist(t *testing.T, db *sql.DB) {
	t.Helper()

	if _, err := db.Exec(`DELETE FROM watchlist_item`); err != nil {
		t.Fatalf("Failed to clear watchlist: %v", err)
	}
}
