package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pestguide-backend-go/internal/config"
)

// CORSMiddleware configures CORS for the client application origin from
// configuration. Callers must not install it when ClientURL is empty.
func CORSMiddleware(appConfig *config.Config) gin.HandlerFunc {
	if appConfig == nil || appConfig.ClientURL == "" {
		panic("ClientURL for CORS is not configured")
	}

	return cors.New(cors.Config{
		AllowOrigins:     []string{appConfig.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
