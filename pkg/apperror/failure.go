package apperror

import (
	"fmt"
	"strings"
)

// Kind discriminates the raw failures the storage and token layers hand to the classifier.
type Kind int

const (
	KindUnknown Kind = iota
	KindCast
	KindDuplicate
	KindValidation
	KindTokenInvalid
	KindTokenExpired
)

func (k Kind) String() string {
	switch k {
	case KindCast:
		return "cast"
	case KindDuplicate:
		return "duplicate"
	case KindValidation:
		return "validation"
	case KindTokenInvalid:
		return "token_invalid"
	case KindTokenExpired:
		return "token_expired"
	default:
		return "unknown"
	}
}

// Failure is a raw error with a known shape.
type Failure interface {
	error
	Kind() Kind
}

// CastError reports an identifier that could not be parsed.
type CastError struct {
	Path  string `json:"path"`
	Value string `json:"value"`
	Err   error  `json:"-"`
}

func (e *CastError) Kind() Kind { return KindCast }

func (e *CastError) Error() string {
	return fmt.Sprintf("cast to identifier failed for value %q at path %q", e.Value, e.Path)
}

func (e *CastError) Unwrap() error { return e.Err }

// DuplicateKeyError reports a uniqueness-constraint conflict.
type DuplicateKeyError struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Err   error  `json:"-"`
}

func (e *DuplicateKeyError) Kind() Kind { return KindDuplicate }

func (e *DuplicateKeyError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("duplicate key %s: %s", e.Field, e.Value)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries one message per failing field, in declaration order.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Kind() Kind { return KindValidation }

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field message and returns the receiver.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// Messages returns the field messages in order.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Message)
	}
	return out
}

// TokenError reports a signed token that failed verification.
type TokenError struct {
	Expired bool  `json:"expired"`
	Err     error `json:"-"`
}

func (e *TokenError) Kind() Kind {
	if e.Expired {
		return KindTokenExpired
	}
	return KindTokenInvalid
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return "token verification failed: " + e.Err.Error()
	}
	if e.Expired {
		return "token expired"
	}
	return "token invalid"
}

func (e *TokenError) Unwrap() error { return e.Err }
