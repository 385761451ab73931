package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger returns a gin middleware that logs each request with zap:
// method, path, status, latency, client IP, and a generated request ID
// (also echoed back in the X-Request-ID header).
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RequestLogger requires a non-nil zap.Logger instance")
	}
	return func(c *gin.Context) {
		start := time.Now()

		// Copy before handlers can mutate the request.
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := uuid.NewString()
		c.Set("requestID", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		logFields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status_code", statusCode),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if query != "" {
			logFields = append(logFields, zap.String("query", query))
		}
		if len(c.Errors) > 0 {
			logFields = append(logFields, zap.String("gin_errors", c.Errors.String()))
		}

		switch {
		case statusCode >= http.StatusInternalServerError:
			logger.Error("Incoming Request", logFields...)
		case statusCode >= http.StatusBadRequest:
			logger.Warn("Incoming Request", logFields...)
		default:
			logger.Info("Incoming Request", logFields...)
		}
	}
}
