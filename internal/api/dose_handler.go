package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/cafflog/cafflog-api/internal/api/middleware"
	"github.com/cafflog/cafflog-api/internal/api/shared"
	"github.com/cafflog/cafflog-api/internal/domain"
	"github.com/cafflog/cafflog-api/internal/service"
)

// DoseHandler handles HTTP endpoints for logging and managing caffeine
// dose entries.
type DoseHandler struct {
	doseService service.DoseService
	validate    *validator.Validate
}

// NewDoseHandler creates a new DoseHandler. It owns a validator instance
// because the dose payload uses custom dosedate and dosetime tags that
// should not leak into the shared validator.
func NewDoseHandler(doseService service.DoseService) (*DoseHandler, error) {
	if doseService == nil {
		return nil, fmt.Errorf("%w: doseService cannot be nil", domain.ErrValidation)
	}

	v := validator.New()
	if err := v.RegisterValidation("dosedate", validDoseDate); err != nil {
		return nil, fmt.Errorf("failed to register dosedate validation: %w", err)
	}
	if err := v.RegisterValidation("dosetime", validDoseTime); err != nil {
		return nil, fmt.Errorf("failed to register dosetime validation: %w", err)
	}

	return &DoseHandler{
		doseService: doseService,
		validate:    v,
	}, nil
}

// validDoseDate reports whether the field is a well-formed MM/DD day.
func validDoseDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(domain.DoseDateLayout, fl.Field().String())
	return err == nil
}

// validDoseTime reports whether the field is a well-formed HH:MM time.
func validDoseTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(domain.DoseTimeLayout, fl.Field().String())
	return err == nil
}

// CreateDose handles POST /api/doses. It records a new dose entry for the
// authenticated user and returns it with its generated ID.
func (h *DoseHandler) CreateDose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateDoseRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	entry, err := h.doseService.CreateDose(ctx, userID, req.DoseDate, req.DoseTime, req.AmountMg)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, entry)
}

// ListDoses handles GET /api/doses. It returns the authenticated user's
// dose entries, newest first. A user with no entries gets an empty array,
// not null.
func (h *DoseHandler) ListDoses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	entries, err := h.doseService.ListDoses(ctx, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// DeleteDose handles DELETE /api/doses/{id}. Deleting an entry that does
// not exist or belongs to another user yields the same 404.
func (h *DoseHandler) DeleteDose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	doseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid dose ID format", err)
		return
	}

	if err := h.doseService.DeleteDose(ctx, userID, doseID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
