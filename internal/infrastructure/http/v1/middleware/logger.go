package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vistapos/pkg/logger"
)

// Logger logs one line per request after the handler chain finishes.
// Server errors are logged at error level so they stand out without
// needing the status field.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, "errors", errs.String())
		}

		ctxLog := log.WithContext(c.Request.Context())
		if status >= http.StatusInternalServerError {
			ctxLog.Errorw("http request", fields...)
			return
		}
		ctxLog.Infow("http request", fields...)
	}
}
