package database

import (
	"embed"
	"errors"
	"fmt"

	// The migrate package reads and applies versioned SQL migration files.
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	// iofs serves migrations out of an embed.FS, so the binary carries its own schema
	// and does not depend on the working directory.
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies any pending "up" migrations. Migrations are numbered SQL files
// (e.g., 000001_init_schema.up.sql). The migrate library tracks which have already run
// in a special table (schema_migrations) so it never applies the same migration twice.
func RunMigrations(dsn string) error {
	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	// migrate.ErrNoChange is returned when there is nothing new to run. Not a real error.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrateUp is the `migrate up` subcommand: apply everything and report the version.
func MigrateUp(dsn string) error {
	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.WithField("version", version).Info("Migrated database")
	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(dsn string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("invalid steps value %d: must be positive", steps)
	}

	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Steps(-steps)
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	version, _, verr := m.Version()
	if errors.Is(verr, migrate.ErrNilVersion) {
		log.Info("Rolled back every migration")
		return nil
	}
	log.WithField("version", version).Info("Rolled back database")
	return nil
}

// MigrateStatus logs the current schema version and whether it is dirty.
func MigrateStatus(dsn string) error {
	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("No migrations have been applied yet")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	status := "clean"
	if dirty {
		status = "dirty"
	}
	log.WithFields(log.Fields{"version": version, "status": status}).Info("Current migration version")
	return nil
}

// newMigrate wires a pgx-backed *sql.DB and the embedded source into a migrator.
// Both URL and keyword/value DSNs are accepted because pgx does the parsing.
func newMigrate(dsn string) (*migrate.Migrate, error) {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*connConfig)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
