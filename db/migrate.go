// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies all pending migrations for the connection's dialect.
// Safe to call on every start.
func Migrate(c *Conn) error {
	if c == nil || c.DB == nil {
		return errors.New("database connection is nil")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations/"+string(c.Dialect))
	if err != nil {
		return fmt.Errorf("failed to create migration source driver: %w", err)
	}

	var dbDriver database.Driver
	switch c.Dialect {
	case Postgres:
		dbDriver, err = postgres.WithInstance(c.DB, &postgres.Config{})
	case SQLite:
		dbDriver, err = migratesqlite.WithInstance(c.DB, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unsupported database type %q", c.Dialect)
	}
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, string(c.Dialect), dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// m.Close is not called: the database drivers close the shared *sql.DB.
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Debug("database migrations: already up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("database migrations applied", "dialect", c.Dialect)
	return nil
}
