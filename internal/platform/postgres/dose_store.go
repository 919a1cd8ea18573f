package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cafflog/cafflog-api/internal/domain"
	"github.com/cafflog/cafflog-api/internal/platform/logger"
	"github.com/cafflog/cafflog-api/internal/store"
)

// PostgresDoseStore implements the store.DoseStore interface using a
// PostgreSQL database. Every read and delete is scoped to the owning
// user, so one user's entries are invisible to another.
type PostgresDoseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Compile-time check that PostgresDoseStore satisfies store.DoseStore.
var _ store.DoseStore = (*PostgresDoseStore)(nil)

// NewPostgresDoseStore creates a new PostgreSQL implementation of the
// DoseStore interface. It panics if db is nil. If log is nil, a default
// logger is used.
func NewPostgresDoseStore(db store.DBTX, log *slog.Logger) *PostgresDoseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresDoseStore{
		db:     db,
		logger: log.With(slog.String("component", "dose_store")),
	}
}

// Create saves a new dose entry to the database. Returns
// store.ErrInvalidEntity if the referenced user does not exist, or a
// validation error if the entry data is invalid.
func (s *PostgresDoseStore) Create(ctx context.Context, entry *domain.DoseEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("dose entry validation failed during create",
			slog.String("error", err.Error()),
			slog.String("dose_id", entry.ID.String()))
		return err
	}

	query := `
		INSERT INTO dose_entries (id, user_id, dose_date, dose_time, amount_mg, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.DoseDate, entry.DoseTime, entry.AmountMg,
		entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("attempted to create dose entry for non-existent user",
				slog.String("user_id", entry.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, entry.UserID)
		}
		log.Error("failed to insert dose entry",
			slog.String("error", err.Error()),
			slog.String("dose_id", entry.ID.String()))
		return MapError(err)
	}

	log.Debug("dose entry created successfully",
		slog.String("dose_id", entry.ID.String()),
		slog.String("user_id", entry.UserID.String()))
	return nil
}

// GetByID retrieves a dose entry by its ID, scoped to the given user.
// Returns store.ErrDoseNotFound when the entry does not exist or
// belongs to a different user; the two cases are indistinguishable to
// the caller.
func (s *PostgresDoseStore) GetByID(ctx context.Context, userID, doseID uuid.UUID) (*domain.DoseEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, dose_date, dose_time, amount_mg, created_at, updated_at
		FROM dose_entries
		WHERE id = $1 AND user_id = $2
	`
	entry := &domain.DoseEntry{}
	err := s.db.QueryRowContext(ctx, query, doseID, userID).Scan(
		&entry.ID, &entry.UserID, &entry.DoseDate, &entry.DoseTime, &entry.AmountMg,
		&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("dose entry not found",
				slog.String("dose_id", doseID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrDoseNotFound
		}
		log.Error("failed to get dose entry",
			slog.String("error", err.Error()),
			slog.String("dose_id", doseID.String()))
		return nil, fmt.Errorf("failed to get dose entry: %w", err)
	}

	return entry, nil
}

// ListByUser retrieves all dose entries for the given user, newest
// first. An empty result is an empty slice, never nil.
func (s *PostgresDoseStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DoseEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, dose_date, dose_time, amount_mg, created_at, updated_at
		FROM dose_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query dose entries",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to query dose entries: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Error("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	entries := []domain.DoseEntry{}
	for rows.Next() {
		var entry domain.DoseEntry
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.DoseDate, &entry.DoseTime, &entry.AmountMg,
			&entry.CreatedAt, &entry.UpdatedAt); err != nil {
			log.Error("failed to scan dose entry row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, fmt.Errorf("failed to scan dose entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating dose entry rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("error iterating dose entries: %w", err)
	}

	log.Debug("listed dose entries",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(entries)))
	return entries, nil
}

// Delete removes a dose entry by its ID, scoped to the given user.
// Returns store.ErrDoseNotFound when the entry does not exist or
// belongs to a different user.
func (s *PostgresDoseStore) Delete(ctx context.Context, userID, doseID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM dose_entries WHERE id = $1 AND user_id = $2`
	result, err := s.db.ExecContext(ctx, query, doseID, userID)
	if err != nil {
		log.Error("failed to delete dose entry",
			slog.String("error", err.Error()),
			slog.String("dose_id", doseID.String()))
		return fmt.Errorf("failed to delete dose entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		log.Debug("no dose entry found to delete",
			slog.String("dose_id", doseID.String()),
			slog.String("user_id", userID.String()))
		return store.ErrDoseNotFound
	}

	log.Debug("dose entry deleted successfully",
		slog.String("dose_id", doseID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// WithTx returns a new DoseStore bound to the given transaction. The
// returned store shares the receiver's logger but executes all queries
// within tx.
func (s *PostgresDoseStore) WithTx(tx *sql.Tx) store.DoseStore {
	return &PostgresDoseStore{
		db:     tx,
		logger: s.logger,
	}
}
