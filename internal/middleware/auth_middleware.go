package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys populated by VerifyToken for downstream handlers.
const (
	ContextKeyUserID    = "userID"
	ContextKeyUserEmail = "userEmail"
)

// ErrorResponse mirrors the definition in internal/api to avoid an import
// cycle between the middleware and handler packages.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware provides Gin middleware for Firebase ID token authentication.
type AuthMiddleware struct {
	firebaseAuthClient *auth.Client
	logger             *zap.Logger
}

// NewAuthMiddleware creates an AuthMiddleware. A nil auth client is a
// setup error the application cannot run with.
func NewAuthMiddleware(fbAuthClient *auth.Client, logger *zap.Logger) *AuthMiddleware {
	if fbAuthClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{firebaseAuthClient: fbAuthClient, logger: logger}
}

// VerifyToken verifies the Firebase ID token from the Authorization header
// and, when valid, sets the user's UID and email in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}
		idToken := parts[1]

		token, err := m.firebaseAuthClient.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			// Generic message to the client; details stay server-side.
			m.logger.Warn("ID token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set(ContextKeyUserID, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(ContextKeyUserEmail, email)
		}

		c.Next()
	}
}
