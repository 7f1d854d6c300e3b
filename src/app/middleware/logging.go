package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// StatementCountKey is the context key handlers set to the number of
// statements a request carried. Logging reports it instead of the body.
const StatementCountKey = "statement_count"

// Logging emits one line per request with the method, path, status,
// latency and body sizes. Bodies are never logged: they hold SQL text and
// bound values.
func Logging(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		api := path
		if query != "" {
			api = api + "?" + query
		}
		status := c.Writer.Status()

		logLine := fmt.Sprintf("%s | %s %s | %d | %s | request: %s | response: %dB |",
			GetRequestID(c),
			c.Request.Method,
			api,
			status,
			time.Since(start).Round(time.Microsecond),
			requestSize(c.Request.ContentLength),
			max(c.Writer.Size(), 0),
		)
		if n, ok := c.Get(StatementCountKey); ok {
			logLine += fmt.Sprintf(" statements: %v |", n)
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			logLine += " errors: " + errs.String()
		}

		switch {
		case status >= 500:
			log.Error(logLine)
		case status >= 400:
			log.Warn(logLine)
		default:
			log.Info(logLine)
		}
	}
}

func requestSize(n int64) string {
	if n < 0 {
		return "chunked"
	}
	return fmt.Sprintf("%dB", n)
}
