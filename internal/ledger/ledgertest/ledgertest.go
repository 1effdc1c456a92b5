// Package ledgertest provides a migrated SQLite ledger for tests.
package ledgertest

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/courier/internal/ledger"
	"github.com/JaimeStill/courier/pkg/database"
	"github.com/JaimeStill/courier/pkg/pagination"
)

// Pagination is the page configuration used by test ledgers.
var Pagination = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

// New opens a fresh SQLite database in a temporary directory, applies the
// ledger migrations, and returns a ledger over it. The database is closed
// when the test ends.
func New(t testing.TB) ledger.System {
	t.Helper()

	cfg := &database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "ledger.db"),
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize database config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sys, err := database.New(cfg, logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	db := sys.Connection()
	t.Cleanup(func() { db.Close() })

	if err := ledger.Migrate(db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate ledger: %v", err)
	}

	return ledger.New(db, database.DriverSQLite, logger, Pagination)
}
