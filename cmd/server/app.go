package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/cafflog/cafflog-api/internal/catalog"
	"github.com/cafflog/cafflog-api/internal/config"
	"github.com/cafflog/cafflog-api/internal/domain/decay"
	"github.com/cafflog/cafflog-api/internal/platform/gemini"
	"github.com/cafflog/cafflog-api/internal/platform/postgres"
	"github.com/cafflog/cafflog-api/internal/service"
	"github.com/cafflog/cafflog-api/internal/service/auth"
	"github.com/cafflog/cafflog-api/internal/store"
)

// application holds the shared dependencies of the server. It is
// assembled once at startup by newApplication and owns the database
// connection until cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	doseStore store.DoseStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	decayService     decay.Service
	doseService      service.DoseService

	// drinkEstimator is nil when no Gemini API key is configured; the
	// drink estimation endpoint then responds 503.
	drinkEstimator catalog.DrinkEstimator
}

// newApplication creates and wires all application dependencies.
// Returns an error if any dependency fails to initialize.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	db *sql.DB,
) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, bcrypt.DefaultCost)
	doseStore := postgres.NewPostgresDoseStore(db, log)

	decayService := decay.NewDefaultService()

	doseService, err := service.NewDoseService(doseStore, decayService, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dose service: %w", err)
	}

	var drinkEstimator catalog.DrinkEstimator
	if cfg.LLM.GeminiAPIKey != "" {
		estimator, err := gemini.NewDrinkEstimator(ctx, log, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize drink estimator: %w", err)
		}
		drinkEstimator = estimator
	} else {
		log.Info("no Gemini API key configured, drink estimation disabled")
	}

	return &application{
		config:           cfg,
		logger:           log,
		db:               db,
		userStore:        userStore,
		doseStore:        doseStore,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		decayService:     decayService,
		doseService:      doseService,
		drinkEstimator:   drinkEstimator,
	}, nil
}

// Run starts the HTTP server and blocks until shutdown completes.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}
	return app.startHTTPServer(ctx, router)
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection",
				slog.String("error", err.Error()))
		}
	}
}
