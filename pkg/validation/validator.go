package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/natours-auth/pkg/apperror"
)

// roles mirrors entity.Role values.
var roles = []string{"user", "guide", "lead-guide", "admin"}

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for credential fields.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// New returns a standalone validator with the same setup, for input that does
// not come through gin binding.
func New() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

// Register applies the tag name function and aliases to v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt ignores bytes past 72, so longer passwords are rejected up front
	v.RegisterAlias("pwd", "min=8,max=72")
	v.RegisterAlias("role", "oneof="+strings.Join(roles, " "))
}

// ToFailure converts validation/binding errors into an ordered *apperror.ValidationError.
func ToFailure(err error) error {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	switch {
	case errors.As(err, &se), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return (&apperror.ValidationError{}).Add("payload", "Request body must be valid JSON")
	case errors.As(err, &ute):
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return (&apperror.ValidationError{}).Add(field, field+" has the wrong type")
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &apperror.ValidationError{}
		for _, fe := range verrs {
			out.Add(fe.Field(), formatFieldError(fe))
		}
		return out
	}

	return (&apperror.ValidationError{}).Add("payload", "Invalid request payload")
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		switch field {
		case "name":
			return "Please tell us your name"
		case "email":
			return "Please provide your email"
		case "password":
			return "Please provide a password"
		case "passwordConfirm":
			return "Please confirm your password"
		}
		return field + " is required"
	case "email":
		return "Please provide a valid email"
	case "eqfield":
		if field == "passwordConfirm" {
			return "Passwords are not the same"
		}
		return field + " must be equal to " + param
	case "pwd":
		return field + " must be between 8 and 72 characters long"
	case "role":
		return field + " must be one of: " + strings.Join(roles, ", ")
	}
	if param != "" {
		return field + " failed validation '" + fe.Tag() + "' with parameter '" + param + "'"
	}
	return field + " failed validation '" + fe.Tag() + "'"
}

