package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cafflog/cafflog-api/internal/api/middleware"
	"github.com/cafflog/cafflog-api/internal/api/shared"
	"github.com/cafflog/cafflog-api/internal/catalog"
	"github.com/cafflog/cafflog-api/internal/domain"
	"github.com/cafflog/cafflog-api/internal/platform/logger"
)

// DrinkHandler handles the drink estimation endpoint, which turns a
// free-text drink description into a caffeine estimate the client can log
// as a dose entry.
type DrinkHandler struct {
	estimator catalog.DrinkEstimator
	now       func() time.Time
}

// NewDrinkHandler creates a new DrinkHandler. A nil estimator is allowed
// and means the feature is not configured; requests then get a 503.
func NewDrinkHandler(estimator catalog.DrinkEstimator) *DrinkHandler {
	return &DrinkHandler{
		estimator: estimator,
		now:       time.Now,
	}
}

// EstimateDrink handles POST /api/drinks/estimate. The response prefills
// the dose date and time with the current wall clock so the suggestion can
// be submitted as a dose entry directly.
func (h *DrinkHandler) EstimateDrink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if h.estimator == nil {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable,
			"Drink estimation is not configured")
		return
	}

	var req DrinkEstimateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Description must not be empty")
		return
	}

	estimate, err := h.estimator.EstimateDrink(ctx, req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	logger.FromContext(ctx).Info("drink estimated",
		slog.String("user_id", userID.String()),
		slog.String("drink", estimate.Drink),
		slog.Float64("estimated_mg", estimate.EstimatedMg))

	now := h.now()
	shared.RespondWithJSON(w, r, http.StatusOK, DrinkEstimateResponse{
		Drink:       estimate.Drink,
		EstimatedMg: estimate.EstimatedMg,
		DoseDate:    now.Format(domain.DoseDateLayout),
		DoseTime:    now.Format(domain.DoseTimeLayout),
	})
}
