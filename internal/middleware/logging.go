package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/securehello/securehello/internal/observability"
)

// Logging returns a middleware that logs completed requests with a
// level derived from the response status.
func Logging(logger observability.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = observability.NopLogger()
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []observability.Field{
			observability.String("method", c.Request.Method),
			observability.String("path", path),
			observability.Int("status", status),
			observability.Duration("latency", time.Since(start)),
			observability.String("client_ip", c.ClientIP()),
			observability.Int("body_size", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, observability.String("errors", c.Errors.String()))
		}

		entry := logger.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			entry.Error("request completed", fields...)
		case status >= 400:
			entry.Warn("request completed", fields...)
		default:
			entry.Info("request completed", fields...)
		}
	}
}
