package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Restricted(t *testing.T) {
	c := NewClassifier(ModeRestricted)

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "cast",
			err:     &CastError{Path: "id", Value: "abc"},
			code:    http.StatusBadRequest,
			message: "Invalid id: abc",
		},
		{
			name:    "duplicate",
			err:     &DuplicateKeyError{Field: "email", Value: "a@b.com"},
			code:    http.StatusBadRequest,
			message: "Duplicate field value: a@b.com. Please use another value!",
		},
		{
			name:    "validation",
			err:     (&ValidationError{}).Add("email", "invalid").Add("name", "required"),
			code:    http.StatusBadRequest,
			message: "Invalid input data. invalid. required",
		},
		{
			name:    "invalid token",
			err:     &TokenError{Err: errors.New("signature is invalid")},
			code:    http.StatusUnauthorized,
			message: MsgInvalidToken,
		},
		{
			name:    "expired token",
			err:     &TokenError{Expired: true},
			code:    http.StatusUnauthorized,
			message: MsgExpiredToken,
		},
		{
			name:    "operational passes through",
			err:     New("No tour found with that ID", http.StatusNotFound),
			code:    http.StatusNotFound,
			message: "No tour found with that ID",
		},
		{
			name:    "wrapped failure",
			err:     fmt.Errorf("get user: %w", &CastError{Path: "id", Value: "zzz"}),
			code:    http.StatusBadRequest,
			message: "Invalid id: zzz",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.code, got.Code())
			assert.Equal(t, tt.message, got.Message)
			assert.True(t, got.IsOperational)
		})
	}
}

func TestClassify_Restricted_Unexpected(t *testing.T) {
	c := NewClassifier(ModeRestricted)
	raw := errors.New("pq: connection refused at 10.0.0.3:5432")

	got := c.Classify(raw)

	require.NotNil(t, got)
	assert.Equal(t, http.StatusInternalServerError, got.Code())
	assert.Equal(t, "Something went very wrong!", got.Message)
	assert.False(t, got.IsOperational)
	assert.NotContains(t, got.Message, "10.0.0.3")
	assert.ErrorIs(t, got, raw, "cause is kept for the server log")
}

func TestClassify_Restricted_NonOperationalAppError(t *testing.T) {
	c := NewClassifier(ModeRestricted)
	got := c.Classify(&AppError{StatusCode: http.StatusBadRequest, Message: "internal detail", IsOperational: false})
	assert.Equal(t, http.StatusInternalServerError, got.Code())
	assert.Equal(t, MsgUnexpected, got.Message)
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, NewClassifier(ModeRestricted).Classify(nil))
}

func TestClassify_Diagnostic(t *testing.T) {
	c := NewClassifier(ModeDiagnostic)

	t.Run("raw error keeps its message", func(t *testing.T) {
		raw := errors.New("nil map assignment")
		got := c.Classify(raw)
		assert.Equal(t, http.StatusInternalServerError, got.Code())
		assert.Equal(t, "nil map assignment", got.Message)
		assert.False(t, got.IsOperational)
		assert.Same(t, raw, got.Err)
		assert.NotEmpty(t, got.Stack)
	})

	t.Run("failure keeps raw message with derived status", func(t *testing.T) {
		raw := &CastError{Path: "id", Value: "abc"}
		got := c.Classify(raw)
		assert.Equal(t, http.StatusBadRequest, got.Code())
		assert.Equal(t, raw.Error(), got.Message)
		assert.Same(t, raw, got.Err)
	})

	t.Run("operational error", func(t *testing.T) {
		got := c.Classify(New("Please provide email and password!", http.StatusBadRequest))
		assert.Equal(t, http.StatusBadRequest, got.Code())
		assert.Equal(t, "Please provide email and password!", got.Message)
		assert.True(t, got.IsOperational)
		assert.NotEmpty(t, got.Stack)
	})
}
