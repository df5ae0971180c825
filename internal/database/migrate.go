// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database

import (
	"embed"

	"github.com/pressly/goose/v3"
	"github.com/vinovest/sqlx"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// dialect returns the goose dialect and migration directory for a connection.
func dialect(db *sqlx.DB) (string, string) {
	if db.DriverName() == "pgx" {
		return "postgres", "migrations/postgres"
	}
	return "sqlite3", "migrations/sqlite"
}

func prepare(db *sqlx.DB) (string, error) {
	goose.SetBaseFS(embedMigrations)

	name, dir := dialect(db)
	if err := goose.SetDialect(name); err != nil {
		return "", err
	}
	return dir, nil
}

// RunMigrations runs all pending goose migrations.
func RunMigrations(db *sqlx.DB) error {
	dir, err := prepare(db)
	if err != nil {
		return err
	}
	return goose.Up(db.DB, dir)
}

// MigrateDown rolls back the last migration.
func MigrateDown(db *sqlx.DB) error {
	dir, err := prepare(db)
	if err != nil {
		return err
	}
	return goose.Down(db.DB, dir)
}

// MigrateReset rolls back all migrations.
func MigrateReset(db *sqlx.DB) error {
	dir, err := prepare(db)
	if err != nil {
		return err
	}
	return goose.Reset(db.DB, dir)
}

// MigrateStatus logs the state of every migration.
func MigrateStatus(db *sqlx.DB) error {
	dir, err := prepare(db)
	if err != nil {
		return err
	}
	return goose.Status(db.DB, dir)
}
