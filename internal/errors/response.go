package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/swipe-api/internal/logger"
)

// Response is the JSON body of every error reply.
type Response struct {
	Error string `json:"error"`
}

// Write maps err and aborts the request with the matching status and body.
// Server-side failures are logged with the underlying cause.
func Write(c *gin.Context, err error) {
	var se *Error
	if !errors.As(Map(err), &se) {
		se = &Error{Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
	}

	if se.Status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", se.Status,
			"err", se.Err,
		)
	}

	c.AbortWithStatusJSON(se.Status, Response{Error: se.Message})
}
