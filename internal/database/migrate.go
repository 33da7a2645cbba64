package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies the embedded migrations for the DB's dialect.
// golang-migrate closes the instance it is handed, so it gets its own connection.
func (db *DB) Migrate() error {
	migrateDB, err := sql.Open(db.dialect.driverName(), db.dsn)
	if err != nil {
		return fmt.Errorf("opening migration database: %w", err)
	}

	var driver migratedb.Driver

	switch db.dialect {
	case Postgres:
		driver, err = migratepgx.WithInstance(migrateDB, &migratepgx.Config{})
	default:
		driver, err = migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	}

	if err != nil {
		migrateDB.Close()
		return fmt.Errorf("creating %s migration driver: %w", db.dialect, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+string(db.dialect))
	if err != nil {
		driver.Close()
		return fmt.Errorf("creating migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(db.dialect), driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
