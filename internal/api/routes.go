package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pestguide-backend-go/internal/catalog"
	"pestguide-backend-go/internal/db"
	"pestguide-backend-go/internal/middleware"
	"pestguide-backend-go/internal/session"
)

// SetupRoutes configures all application routes. Global middleware
// (logging, recovery, CORS) is expected to be applied to the router
// before this is called, typically in main.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	sessions *session.Registry,
	catalogService *catalog.Service,
) {
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		// The application cannot secure routes without the auth client.
		logger.Fatal("Firebase Auth client is not initialized; routes will not be set up")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient, logger)

	authHandler := NewAuthHandler(sessions, logger)
	profileHandler := NewProfileHandler(sessions, logger)
	catalogHandler := NewCatalogHandler(catalogService, sessions, logger)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/logout", authMW.VerifyToken(), authHandler.Logout)
			authGroup.POST("/password", authMW.VerifyToken(), authHandler.ChangePassword)
		}

		usersGroup := apiV1.Group("/users", authMW.VerifyToken())
		{
			usersGroup.GET("/me", profileHandler.GetCurrentProfile)
			// Direct profile write with no payment verification; a
			// placeholder for a real billing integration.
			usersGroup.POST("/me/upgrade", profileHandler.Upgrade)
		}

		// Content browsing requires a signed-in user; the entitlement
		// gate additionally guards paid detail bodies.
		guidesGroup := apiV1.Group("/guides", authMW.VerifyToken())
		{
			guidesGroup.GET("", catalogHandler.ListGuides)
			guidesGroup.GET("/:guideId", catalogHandler.GetGuide)
		}

		chemicalsGroup := apiV1.Group("/chemicals", authMW.VerifyToken())
		{
			chemicalsGroup.GET("", catalogHandler.ListChemicals)
			chemicalsGroup.GET("/:chemicalId", catalogHandler.GetChemical)
		}

		servicesGroup := apiV1.Group("/services", authMW.VerifyToken())
		{
			servicesGroup.GET("", catalogHandler.ListServices)
			servicesGroup.GET("/:serviceId", catalogHandler.GetService)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Pest Guide backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
