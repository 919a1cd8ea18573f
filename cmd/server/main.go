// Package main is the entry point for the cafflog API server. It loads
// configuration, connects to PostgreSQL, applies pending schema
// migrations, and serves the HTTP API until the process is terminated.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql

	"github.com/cafflog/cafflog-api/internal/config"
	"github.com/cafflog/cafflog-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run wires the application together and blocks until shutdown. Errors
// bubble up here so main remains the only place that calls os.Exit.
func run() error {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status, version, create) and exit")
	migrationName := flag.String("migration-name", "",
		"name for the SQL skeleton written into ./migrations by -migrate create")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := setupAppDatabase(cfg, log)
	if err != nil {
		return err
	}

	if *migrateCmd != "" {
		err := runMigrations(db, *migrateCmd, *migrationName, log)
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close database connection: %w", closeErr)
		}
		return err
	}

	// Apply pending migrations on startup so a fresh database is usable
	// without a separate migration step.
	if err := runMigrations(db, "up", "", log); err != nil {
		_ = db.Close()
		return err
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
