package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/cafflog/cafflog-api/internal/store"
)

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("ErrNoRows becomes ErrNotFound", func(t *testing.T) {
		err := MapError(sql.ErrNoRows)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unique violation becomes ErrDuplicate", func(t *testing.T) {
		err := MapError(pgError(uniqueViolationCode, "users_email_key"))
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.Contains(t, err.Error(), "users_email_key")
	})

	t.Run("foreign key violation becomes ErrInvalidEntity", func(t *testing.T) {
		err := MapError(pgError(foreignKeyViolationCode, "dose_entries_user_id_fkey"))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("check violation becomes ErrInvalidEntity", func(t *testing.T) {
		err := MapError(pgError(checkViolationCode, "amount_mg_check"))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("not null violation becomes ErrInvalidEntity", func(t *testing.T) {
		err := MapError(pgError(notNullViolationCode, ""))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("unrelated errors pass through unchanged", func(t *testing.T) {
		origErr := errors.New("connection refused")
		assert.Same(t, origErr, MapError(origErr))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(pgError(uniqueViolationCode, "users_email_key")))
	assert.True(t, IsUniqueViolation(
		fmt.Errorf("insert failed: %w", pgError(uniqueViolationCode, ""))))
	assert.False(t, IsUniqueViolation(pgError(foreignKeyViolationCode, "")))
	assert.False(t, IsUniqueViolation(errors.New("not a pg error")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsForeignKeyViolation(pgError(foreignKeyViolationCode, "dose_entries_user_id_fkey")))
	assert.True(t, IsForeignKeyViolation(
		fmt.Errorf("insert failed: %w", pgError(foreignKeyViolationCode, ""))))
	assert.False(t, IsForeignKeyViolation(pgError(uniqueViolationCode, "")))
	assert.False(t, IsForeignKeyViolation(errors.New("not a pg error")))
	assert.False(t, IsForeignKeyViolation(nil))
}
