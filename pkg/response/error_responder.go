package response

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/natours-auth/pkg/apperror"
)

//go:embed templates/*.tmpl
var viewFS embed.FS

const (
	PageTitle        = "Something went wrong!"
	PageRetryMessage = "Please try again later"
)

type ErrorBody struct {
	Status    string       `json:"status"`
	Message   string       `json:"message"`
	RequestID string       `json:"request_id,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Stack     string       `json:"stack,omitempty"`
}

// ErrorDetail is only sent in diagnostic mode.
type ErrorDetail struct {
	Type          string `json:"type"`
	Message       string `json:"message"`
	StatusCode    int    `json:"statusCode"`
	IsOperational bool   `json:"isOperational"`
	Detail        any    `json:"detail,omitempty"`
}

type pageData struct {
	AppName string
	Title   string
	Message string
	Stack   string
}

// ErrorResponder renders canonical errors as JSON or as the error page.
// The mode is fixed for its lifetime.
type ErrorResponder struct {
	mode    apperror.Mode
	logger  *logrus.Logger
	view    *template.Template
	appName string
}

func NewErrorResponder(mode apperror.Mode, logger *logrus.Logger, appName string) *ErrorResponder {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	view := template.Must(template.New("error").ParseFS(viewFS, "templates/error.html.tmpl"))
	return &ErrorResponder{mode: mode, logger: logger, view: view, appName: appName}
}

func (r *ErrorResponder) Mode() apperror.Mode { return r.mode }

// Respond writes e and aborts the chain. api selects JSON over the HTML page.
func (r *ErrorResponder) Respond(c *gin.Context, e *apperror.AppError, api bool) {
	if e == nil {
		return
	}
	code := e.Code()
	r.log(c, e)

	if api {
		c.AbortWithStatusJSON(code, r.Body(c, e))
		return
	}
	c.Render(code, render.HTML{Template: r.view, Name: "error", Data: r.page(e)})
	c.Abort()
}

// Body builds the JSON error envelope.
func (r *ErrorResponder) Body(c *gin.Context, e *apperror.AppError) ErrorBody {
	body := ErrorBody{
		Status:    e.Status(),
		Message:   e.Message,
		RequestID: c.GetString("request_id"),
	}
	if r.mode == apperror.ModeDiagnostic {
		body.Error = detailOf(e)
		body.Stack = e.Stack
	}
	return body
}

func (r *ErrorResponder) page(e *apperror.AppError) pageData {
	p := pageData{AppName: r.appName, Title: PageTitle, Message: e.Message}
	if r.mode == apperror.ModeDiagnostic {
		p.Stack = e.Stack
		return p
	}
	if !e.IsOperational {
		p.Message = PageRetryMessage
	}
	return p
}

func (r *ErrorResponder) log(c *gin.Context, e *apperror.AppError) {
	entry := r.logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     e.Code(),
	})
	if e.IsOperational {
		entry.WithField("message", e.Message).Debug("request failed")
		return
	}
	if e.Err != nil {
		entry = entry.WithError(e.Err).WithField("cause_type", fmt.Sprintf("%T", e.Err))
	}
	entry.WithField("stack", e.Stack).Error("unexpected error")
}

func detailOf(e *apperror.AppError) *ErrorDetail {
	d := &ErrorDetail{
		Type:          fmt.Sprintf("%T", e),
		Message:       e.Error(),
		StatusCode:    e.Code(),
		IsOperational: e.IsOperational,
	}
	if e.Err == nil {
		return d
	}
	d.Type = fmt.Sprintf("%T", e.Err)
	d.Message = e.Err.Error()
	var f apperror.Failure
	if errors.As(e.Err, &f) {
		d.Detail = f
	}
	return d
}
