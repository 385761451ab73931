package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware recovers from handler panics, logs the panic with a
// stack trace, and returns a generic 500 to the client.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RecoveryMiddleware requires a non-nil zap.Logger instance")
	}
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.Any("error", err),
					zap.String("stacktrace", string(debug.Stack())),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)

				// Guard against writing twice if a handler already responded.
				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError, gin.H{
						"error":   "Internal Server Error",
						"message": "The server encountered an unexpected condition which prevented it from fulfilling the request.",
					})
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
