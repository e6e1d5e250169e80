package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/natours-auth/internal/domain/entity"
	"github.com/oksasatya/natours-auth/pkg/apperror"
)

func TestCheckID(t *testing.T) {
	assert.NoError(t, checkID(uuid.NewString()))

	var cast *apperror.CastError
	require.ErrorAs(t, checkID("abc"), &cast)
	assert.Equal(t, "id", cast.Path)
	assert.Equal(t, "abc", cast.Value)
}

func TestWriteArgs_NormalizesEmail(t *testing.T) {
	u := entity.NewUser("Test", "test@example.com")
	u.Email = "  Test@Example.COM "
	args := writeArgs(u)

	require.Len(t, args, 9)
	assert.Equal(t, "test@example.com", args[1])
	assert.Equal(t, "test@example.com", u.Email)
	assert.Nil(t, args[6], "empty reset token is stored as NULL")
}
