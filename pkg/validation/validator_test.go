package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/natours-auth/pkg/apperror"
)

type signupPayload struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"omitempty,role"`
}

func newValidator() *validator.Validate { return New() }

func TestToFailure_ValidatorErrorsInFieldOrder(t *testing.T) {
	err := newValidator().Struct(signupPayload{
		Email:           "not-an-email",
		Password:        "short",
		PasswordConfirm: "other",
		Role:            "root",
	})
	require.Error(t, err)

	var ve *apperror.ValidationError
	require.ErrorAs(t, ToFailure(err), &ve)

	fields := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"name", "email", "password", "passwordConfirm", "role"}, fields)
	assert.Equal(t, []string{
		"Please tell us your name",
		"Please provide a valid email",
		"password must be between 8 and 72 characters long",
		"Passwords are not the same",
		"role must be one of: user, guide, lead-guide, admin",
	}, ve.Messages())
}

func TestToFailure_Valid(t *testing.T) {
	err := newValidator().Struct(signupPayload{
		Name: "Jonas", Email: "jonas@example.com", Password: "pass1234", PasswordConfirm: "pass1234",
	})
	assert.NoError(t, err)
	assert.NoError(t, ToFailure(err))
}

func TestToFailure_JSONErrors(t *testing.T) {
	var dst signupPayload
	synErr := json.Unmarshal([]byte(`{"name":`), &dst)
	var ve *apperror.ValidationError
	require.ErrorAs(t, ToFailure(synErr), &ve)
	assert.Equal(t, "payload", ve.Fields[0].Field)

	typeErr := json.Unmarshal([]byte(`{"name": 42}`), &dst)
	require.ErrorAs(t, ToFailure(typeErr), &ve)
	assert.Equal(t, "name", ve.Fields[0].Field)
}

func TestToFailure_Fallback(t *testing.T) {
	var ve *apperror.ValidationError
	require.ErrorAs(t, ToFailure(errors.New("boom")), &ve)
	assert.Equal(t, "Invalid request payload", ve.Fields[0].Message)
}
