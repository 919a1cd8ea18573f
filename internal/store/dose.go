package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cafflog/cafflog-api/internal/domain"
)

// DoseStore defines the interface for dose entry persistence.
//
// Every read and delete is scoped to the owning user: a dose entry that
// exists but belongs to someone else behaves exactly like one that does not
// exist. Ownership enforcement lives in the store so no caller can forget it.
type DoseStore interface {
	// Create saves a new dose entry to the store.
	// It handles domain validation internally.
	// Returns ErrInvalidEntity (wrapping the cause) if the owning user does
	// not exist, and validation errors from the domain DoseEntry if data is
	// invalid.
	Create(ctx context.Context, dose *domain.DoseEntry) error

	// GetByID retrieves a dose entry by its unique ID, scoped to the owning
	// user. Returns ErrDoseNotFound if no such entry exists for that user.
	GetByID(ctx context.Context, userID, doseID uuid.UUID) (*domain.DoseEntry, error)

	// ListByUser retrieves every dose entry owned by the user, newest first.
	// Returns an empty slice, never nil, when the user has no entries.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DoseEntry, error)

	// Delete removes a dose entry, scoped to the owning user.
	// Returns ErrDoseNotFound if no such entry exists for that user.
	Delete(ctx context.Context, userID, doseID uuid.UUID) error

	// WithTx returns a new DoseStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) DoseStore
}
