// Package main is a development utility that seeds the database with a
// user and a short intake history, all inside a single transaction so a
// failed run leaves nothing behind.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	"golang.org/x/crypto/bcrypt"

	"github.com/cafflog/cafflog-api/internal/config"
	"github.com/cafflog/cafflog-api/internal/domain"
	"github.com/cafflog/cafflog-api/internal/platform/logger"
	"github.com/cafflog/cafflog-api/internal/platform/postgres"
	"github.com/cafflog/cafflog-api/internal/store"
)

// sampleDoses describes the seeded intake history as offsets back from
// the current wall clock.
var sampleDoses = []struct {
	ago      time.Duration
	amountMg float64
}{
	{10 * time.Hour, 180},
	{6 * time.Hour, 95},
	{3 * time.Hour, 60},
	{45 * time.Minute, 95},
}

func main() {
	if err := run(); err != nil {
		slog.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	email := flag.String("email", "dev@example.com", "email for the seeded user")
	password := flag.String("password", "correcthorsebatterystaple",
		"password for the seeded user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database connection",
				slog.String("error", err.Error()))
		}
	}()

	user, err := domain.NewUser(*email, *password)
	if err != nil {
		return fmt.Errorf("invalid user data: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, bcrypt.DefaultCost)
	doseStore := postgres.NewPostgresDoseStore(db, log)

	ctx := context.Background()
	now := time.Now()

	err = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		if err := userStore.WithTx(tx).Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		txDoses := doseStore.WithTx(tx)
		for _, sample := range sampleDoses {
			at := now.Add(-sample.ago)
			dose, err := domain.NewDoseEntry(
				user.ID,
				at.Format(domain.DoseDateLayout),
				at.Format(domain.DoseTimeLayout),
				sample.amountMg,
			)
			if err != nil {
				return fmt.Errorf("invalid sample dose: %w", err)
			}
			if err := txDoses.Create(ctx, dose); err != nil {
				return fmt.Errorf("failed to create dose entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("seeded user with sample intake history",
		slog.String("user_id", user.ID.String()),
		slog.Int("dose_entries", len(sampleDoses)))
	return nil
}
