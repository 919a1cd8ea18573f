package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cafflog/cafflog-api/internal/api"
	apimiddleware "github.com/cafflog/cafflog-api/internal/api/middleware"
)

// setupRouter configures the application router with all middleware and
// routes. Request logging happens in the trace middleware, which also
// attaches the request-scoped logger to the context.
func (app *application) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth,
	)
	doseHandler, err := api.NewDoseHandler(app.doseService)
	if err != nil {
		return nil, fmt.Errorf("failed to create dose handler: %w", err)
	}
	residualHandler := api.NewResidualHandler(
		app.doseService,
		app.decayService,
		app.config.Stream,
	)
	drinkHandler := api.NewDrinkHandler(app.drinkEstimator)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/doses", doseHandler.CreateDose)
			r.Get("/doses", doseHandler.ListDoses)
			r.Delete("/doses/{id}", doseHandler.DeleteDose)

			r.Get("/residual", residualHandler.GetResidual)
			r.Get("/residual/stream", residualHandler.StreamResidual)

			r.Post("/drinks/estimate", drinkHandler.EstimateDrink)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			app.logger.Error("failed to write health check response",
				slog.String("error", err.Error()))
		}
	})

	return r, nil
}
