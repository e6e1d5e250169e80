package apperror

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

const (
	StatusFail  = "fail"
	StatusError = "error"
)

// AppError is the canonical error consumed by the error responder.
// Operational errors carry a message that is safe to show to clients.
type AppError struct {
	StatusCode    int
	Message       string
	IsOperational bool
	Err           error
	Stack         string
}

// New creates an operational error with a client-safe message.
func New(message string, statusCode int) *AppError {
	return &AppError{
		StatusCode:    statusCode,
		Message:       message,
		IsOperational: true,
		Stack:         captureStack(3),
	}
}

// Newf is New with a formatted message.
func Newf(statusCode int, format string, args ...any) *AppError {
	e := New(fmt.Sprintf(format, args...), statusCode)
	e.Stack = captureStack(3)
	return e
}

// Wrap creates an operational error that keeps err as its cause.
func Wrap(err error, message string, statusCode int) *AppError {
	e := New(message, statusCode)
	e.Err = err
	e.Stack = captureStack(3)
	return e
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Code returns the HTTP status code, 500 when unset.
func (e *AppError) Code() int {
	if e.StatusCode == 0 {
		return http.StatusInternalServerError
	}
	return e.StatusCode
}

// Status classifies the error as "fail" (4xx) or "error" (everything else).
func (e *AppError) Status() string {
	return StatusClass(e.Code())
}

func StatusClass(code int) string {
	if code >= 400 && code < 500 {
		return StatusFail
	}
	return StatusError
}

func captureStack(skip int) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	var b strings.Builder
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "runtime.") {
			fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		}
		if !more {
			break
		}
	}
	return b.String()
}
