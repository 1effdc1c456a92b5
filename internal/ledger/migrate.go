package ledger

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/JaimeStill/courier/pkg/database"
)

//go:embed migrations
var migrations embed.FS

// Source returns the embedded migration source for a driver.
func Source(d database.Driver) (source.Driver, error) {
	switch d {
	case database.DriverSQLite, database.DriverPostgres:
		return iofs.New(migrations, "migrations/"+string(d))
	}
	return nil, fmt.Errorf("unsupported driver: %q", d)
}

// Migrate applies all pending up migrations to db. The connection stays
// open; callers own its lifetime.
func Migrate(db *sql.DB, d database.Driver) error {
	src, err := Source(d)
	if err != nil {
		return err
	}

	var target migratedb.Driver
	switch d {
	case database.DriverSQLite:
		target, err = sqlite.WithInstance(db, &sqlite.Config{})
	case database.DriverPostgres:
		target, err = postgres.WithInstance(db, &postgres.Config{})
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(d), target)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
