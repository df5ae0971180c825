// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"codeberg.org/oliverandrich/vocabulary-app/internal/config"
	"codeberg.org/oliverandrich/vocabulary-app/internal/database"
	"codeberg.org/oliverandrich/vocabulary-app/internal/server"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Vocabulary learning backend",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:   config.Flags(),
		Action:  server.Run,
		Commands: []*cli.Command{
			migrateCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage database migrations",
		Commands: []*cli.Command{
			migrateAction("up", "Apply all pending migrations", database.RunMigrations),
			migrateAction("down", "Roll back the latest migration", database.MigrateDown),
			migrateAction("reset", "Roll back all migrations", database.MigrateReset),
			migrateAction("status", "Show migration status", database.MigrateStatus),
		},
	}
}

func migrateAction(name, usage string, fn func(*sqlx.DB) error) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := config.NewFromCLI(cmd)
			db, err := database.Connect(cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() {
				if closeErr := db.Close(); closeErr != nil {
					slog.Error("failed to close database", "error", closeErr)
				}
			}()
			return fn(db)
		},
	}
}
