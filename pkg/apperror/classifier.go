package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	MsgInvalidToken = "Invalid token. Please login again!"
	MsgExpiredToken = "Your token has expired! Please login again."
	MsgUnexpected   = "Something went very wrong!"
)

// Classifier turns any error into a canonical AppError.
type Classifier struct {
	mode Mode
}

func NewClassifier(mode Mode) *Classifier {
	return &Classifier{mode: mode}
}

func (c *Classifier) Mode() Mode { return c.mode }

// Classify never returns nil for a non-nil err.
// In restricted mode only the fixed message templates below, or the message of an
// operational AppError, can reach the client.
func (c *Classifier) Classify(err error) *AppError {
	if err == nil {
		return nil
	}
	if c.mode == ModeDiagnostic {
		return diagnose(err)
	}
	return restrict(err)
}

func restrict(err error) *AppError {
	var f Failure
	if errors.As(err, &f) {
		if e := fromFailure(f); e != nil {
			e.Err = err
			return e
		}
	}
	var ae *AppError
	if errors.As(err, &ae) && ae.IsOperational {
		return ae
	}
	return &AppError{
		StatusCode:    http.StatusInternalServerError,
		Message:       MsgUnexpected,
		IsOperational: false,
		Err:           err,
		Stack:         stackOf(err),
	}
}

func fromFailure(f Failure) *AppError {
	switch f.Kind() {
	case KindCast:
		ce := f.(*CastError)
		return New(fmt.Sprintf("Invalid %s: %s", ce.Path, ce.Value), http.StatusBadRequest)
	case KindDuplicate:
		de := f.(*DuplicateKeyError)
		return New(fmt.Sprintf("Duplicate field value: %s. Please use another value!", de.Value), http.StatusBadRequest)
	case KindValidation:
		ve := f.(*ValidationError)
		return New("Invalid input data. "+strings.Join(ve.Messages(), ". "), http.StatusBadRequest)
	case KindTokenInvalid:
		return New(MsgInvalidToken, http.StatusUnauthorized)
	case KindTokenExpired:
		return New(MsgExpiredToken, http.StatusUnauthorized)
	}
	return nil
}

// diagnose keeps the raw message and cause; only the status code is derived.
func diagnose(err error) *AppError {
	out := &AppError{
		StatusCode: http.StatusInternalServerError,
		Message:    err.Error(),
		Err:        err,
		Stack:      stackOf(err),
	}
	var ae *AppError
	if errors.As(err, &ae) {
		out.StatusCode = ae.Code()
		out.Message = ae.Message
		out.IsOperational = ae.IsOperational
		if ae.Err != nil {
			out.Err = ae.Err
		}
		return out
	}
	var f Failure
	if errors.As(err, &f) {
		if e := fromFailure(f); e != nil {
			out.StatusCode = e.StatusCode
			out.IsOperational = true
		}
	}
	return out
}

func stackOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) && ae.Stack != "" {
		return ae.Stack
	}
	return captureStack(4)
}
