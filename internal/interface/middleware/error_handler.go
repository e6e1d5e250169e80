package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/natours-auth/pkg/apperror"
	"github.com/oksasatya/natours-auth/pkg/response"
)

// APIPrefix marks requests answered with JSON; everything else gets the error page.
const APIPrefix = "/api"

func IsAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, APIPrefix)
}

// ErrorHandler runs the chain, then classifies the last error pushed with
// c.Error and hands it to the responder. Handlers never write errors themselves.
func ErrorHandler(classifier *apperror.Classifier, responder *response.ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		responder.Respond(c, classifier.Classify(last.Err), IsAPIRequest(c))
	}
}

// Recovery turns a panic into an unexpected error for ErrorHandler. It must be
// registered after ErrorHandler so the handler sees the pushed error.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		err, ok := rec.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", rec)
		}
		_ = c.Error(err)
		c.Abort()
	})
}

// NotFound answers unknown routes with an operational 404 naming the requested
// path and query.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.Newf(http.StatusNotFound, "Can't find %s on this server!", c.Request.URL.RequestURI()))
	}
}
