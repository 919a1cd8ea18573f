package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"

	"github.com/cafflog/cafflog-api/internal/domain"
	"github.com/cafflog/cafflog-api/internal/store"
)

// MockDoseStore implements store.DoseStore for testing
type MockDoseStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, entry *domain.DoseEntry) error
	GetByIDFn    func(ctx context.Context, userID, doseID uuid.UUID) (*domain.DoseEntry, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]domain.DoseEntry, error)
	DeleteFn     func(ctx context.Context, userID, doseID uuid.UUID) error

	// Entries backs the default implementation, keyed by entry ID
	Entries map[uuid.UUID]domain.DoseEntry

	// Errors returned by the default implementation when set
	CreateError error
	ListError   error
}

// NewMockDoseStore creates a new mock store with initialized defaults
func NewMockDoseStore() *MockDoseStore {
	return &MockDoseStore{
		Entries: make(map[uuid.UUID]domain.DoseEntry),
	}
}

// Create implements the store.DoseStore interface
func (m *MockDoseStore) Create(ctx context.Context, entry *domain.DoseEntry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, entry)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Entries[entry.ID] = *entry
	return nil
}

// GetByID implements the store.DoseStore interface
func (m *MockDoseStore) GetByID(
	ctx context.Context,
	userID, doseID uuid.UUID,
) (*domain.DoseEntry, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, doseID)
	}
	entry, exists := m.Entries[doseID]
	if !exists || entry.UserID != userID {
		return nil, store.ErrDoseNotFound
	}
	return &entry, nil
}

// ListByUser implements the store.DoseStore interface. The default
// implementation matches the real store's ordering, newest first.
func (m *MockDoseStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.DoseEntry, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	if m.ListError != nil {
		return nil, m.ListError
	}
	entries := []domain.DoseEntry{}
	for _, entry := range m.Entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Delete implements the store.DoseStore interface
func (m *MockDoseStore) Delete(ctx context.Context, userID, doseID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, doseID)
	}
	entry, exists := m.Entries[doseID]
	if !exists || entry.UserID != userID {
		return store.ErrDoseNotFound
	}
	delete(m.Entries, doseID)
	return nil
}

// WithTx implements the store.DoseStore interface. The mock has no real
// transactions, so it returns itself.
func (m *MockDoseStore) WithTx(tx *sql.Tx) store.DoseStore {
	return m
}
