package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cafflog/cafflog-api/internal/domain"
	"github.com/cafflog/cafflog-api/internal/domain/decay"
	"github.com/cafflog/cafflog-api/internal/platform/logger"
	"github.com/cafflog/cafflog-api/internal/store"
)

// DoseServiceError is a custom error type for dose service errors.
type DoseServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for DoseServiceError.
func (e *DoseServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dose service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("dose service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *DoseServiceError) Unwrap() error {
	return e.Err
}

// NewDoseServiceError creates a new DoseServiceError.
func NewDoseServiceError(operation, message string, err error) *DoseServiceError {
	return &DoseServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// DoseService provides dose logging and residual estimation operations.
type DoseService interface {
	// CreateDose validates and records a new dose entry for the user.
	// Domain validation errors pass through unwrapped so callers can map
	// them to client errors.
	CreateDose(
		ctx context.Context,
		userID uuid.UUID,
		doseDate, doseTime string,
		amountMg float64,
	) (*domain.DoseEntry, error)

	// ListDoses returns the user's dose entries, newest first. The result
	// is an empty slice when the user has no entries.
	ListDoses(ctx context.Context, userID uuid.UUID) ([]domain.DoseEntry, error)

	// DeleteDose removes one of the user's dose entries. Returns
	// store.ErrDoseNotFound when the entry does not exist or belongs to
	// someone else.
	DeleteDose(ctx context.Context, userID, doseID uuid.UUID) error

	// ResidualSnapshot estimates the user's residual caffeine at the given
	// instant from their full dose history.
	ResidualSnapshot(ctx context.Context, userID uuid.UUID, at time.Time) (decay.Snapshot, error)
}

// doseServiceImpl implements the DoseService interface.
type doseServiceImpl struct {
	doseStore store.DoseStore
	decaySvc  decay.Service
	logger    *slog.Logger
}

// NewDoseService creates a new DoseService. It returns an error if any of
// the required dependencies are nil.
func NewDoseService(
	doseStore store.DoseStore,
	decaySvc decay.Service,
	log *slog.Logger,
) (DoseService, error) {
	if doseStore == nil {
		return nil, fmt.Errorf("%w: doseStore cannot be nil", domain.ErrValidation)
	}
	if decaySvc == nil {
		return nil, fmt.Errorf("%w: decaySvc cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &doseServiceImpl{
		doseStore: doseStore,
		decaySvc:  decaySvc,
		logger:    log.With(slog.String("component", "dose_service")),
	}, nil
}

// CreateDose implements DoseService.CreateDose.
func (s *doseServiceImpl) CreateDose(
	ctx context.Context,
	userID uuid.UUID,
	doseDate, doseTime string,
	amountMg float64,
) (*domain.DoseEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry, err := domain.NewDoseEntry(userID, doseDate, doseTime, amountMg)
	if err != nil {
		log.Debug("dose entry rejected by domain validation",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	if err := s.doseStore.Create(ctx, entry); err != nil {
		log.Error("failed to save dose entry",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewDoseServiceError("create_dose", "failed to save dose entry", err)
	}

	log.Info("dose entry recorded",
		slog.String("dose_id", entry.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Float64("amount_mg", entry.AmountMg))
	return entry, nil
}

// ListDoses implements DoseService.ListDoses.
func (s *doseServiceImpl) ListDoses(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.DoseEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entries, err := s.doseStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list dose entries",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewDoseServiceError("list_doses", "failed to list dose entries", err)
	}

	return entries, nil
}

// DeleteDose implements DoseService.DeleteDose.
func (s *doseServiceImpl) DeleteDose(ctx context.Context, userID, doseID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.doseStore.Delete(ctx, userID, doseID); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("dose entry not found for delete",
				slog.String("dose_id", doseID.String()),
				slog.String("user_id", userID.String()))
			return err
		}
		log.Error("failed to delete dose entry",
			slog.String("error", err.Error()),
			slog.String("dose_id", doseID.String()))
		return NewDoseServiceError("delete_dose", "failed to delete dose entry", err)
	}

	log.Info("dose entry deleted",
		slog.String("dose_id", doseID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// ResidualSnapshot implements DoseService.ResidualSnapshot.
func (s *doseServiceImpl) ResidualSnapshot(
	ctx context.Context,
	userID uuid.UUID,
	at time.Time,
) (decay.Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entries, err := s.doseStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to load dose entries for residual estimate",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return decay.Snapshot{}, NewDoseServiceError(
			"residual_snapshot", "failed to load dose entries", err)
	}

	snapshot := s.decaySvc.Snapshot(entries, at)

	log.Debug("residual estimated",
		slog.String("user_id", userID.String()),
		slog.Int("entry_count", len(entries)),
		slog.Float64("residual_mg", snapshot.ResidualMg),
		slog.String("level", string(snapshot.Level)))
	return snapshot, nil
}
