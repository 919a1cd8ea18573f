package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/cafflog/cafflog-api/migrations"
)

// gooseLogger routes goose output through slog so migration logs share
// the structured format of the rest of the server.
type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g *gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

// runMigrations executes the given goose command against the embedded
// migration files. The name argument is only used by the create command,
// which writes a new migration skeleton into the source tree rather than
// the embedded filesystem.
func runMigrations(db *sql.DB, command, name string, log *slog.Logger) error {
	goose.SetLogger(&gooseLogger{log: log})
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.Up(db, "."); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	case "down":
		if err := goose.Down(db, "."); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
	case "status":
		if err := goose.Status(db, "."); err != nil {
			return fmt.Errorf("failed to report migration status: %w", err)
		}
	case "version":
		version, err := goose.GetDBVersion(db)
		if err != nil {
			return fmt.Errorf("failed to read migration version: %w", err)
		}
		log.Info("database migration version", slog.Int64("version", version))
	case "create":
		if name == "" {
			return fmt.Errorf("the create command requires -migration-name")
		}
		if err := goose.Create(db, "migrations", name, "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
	default:
		return fmt.Errorf(
			"unknown migration command %q (expected up, down, status, version, or create)",
			command)
	}

	return nil
}
