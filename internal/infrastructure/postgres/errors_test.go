package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/natours-auth/pkg/apperror"
)

func TestTranslate_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   "23505",
		Detail: "Key (email)=(test@example.com) already exists.",
	}
	err := translate(fmt.Errorf("insert: %w", pgErr))

	var dup *apperror.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
	assert.Equal(t, "test@example.com", dup.Value)
	assert.ErrorIs(t, err, pgErr)
}

func TestTranslate_Passthrough(t *testing.T) {
	other := errors.New("connection reset")
	assert.Same(t, other, translate(other))
	assert.Nil(t, translate(nil))

	fk := &pgconn.PgError{Code: "23503"}
	assert.Same(t, fk, translate(fk))

	invalidText := &pgconn.PgError{Code: "22P02"}
	assert.Same(t, invalidText, translate(invalidText))
}
