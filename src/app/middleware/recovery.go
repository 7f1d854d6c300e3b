package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"ldb/src/app/http/response"
)

// Recovery turns a panic in a handler into a 500 response and logs the
// stack. It must be the first middleware in the chain.
//
// http.ErrAbortHandler is re-raised so net/http can drop the connection
// quietly.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			requestID := GetRequestID(c)
			log.Error("panic recovered",
				"request_id", requestID,
				"error", rec,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error{
				Error: response.ErrorDetail{
					Code:      "INTERNAL_ERROR",
					Message:   "An unexpected error occurred",
					RequestID: requestID,
				},
			})
		}()

		c.Next()
	}
}
