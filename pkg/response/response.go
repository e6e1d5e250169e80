package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const StatusSuccess = "success"

type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	Token     string    `json:"token,omitempty"`
	Data      T         `json:"data,omitempty"`
}

func Success[T any](ctx *gin.Context, data T, message string) APIResponse[T] {
	return APIResponse[T]{
		Status:    StatusSuccess,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Message:   message,
		Data:      data,
	}
}

// JSON writes a success envelope with the given HTTP status (200 when zero).
func JSON[T any](ctx *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, Success(ctx, data, message))
}

// WithToken writes a success envelope carrying a session token.
func WithToken[T any](ctx *gin.Context, status int, token string, data T) {
	resp := Success(ctx, data, "")
	resp.Token = token
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, resp)
}
