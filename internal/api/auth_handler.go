package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pestguide-backend-go/internal/identity"
	"pestguide-backend-go/internal/middleware"
	"pestguide-backend-go/internal/models"
	"pestguide-backend-go/internal/session"
)

// AuthHandler handles the credential flows: login, signup, logout, and
// password change.
type AuthHandler struct {
	sessions *session.Registry
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *session.Registry, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	ident, mgr, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(c, "login", err)
		return
	}

	profile, _ := mgr.Profile()
	c.JSON(http.StatusOK, AuthResponse{
		IDToken:      ident.IDToken,
		RefreshToken: ident.RefreshToken,
		Profile:      profile,
	})
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	ident, mgr, err := h.sessions.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(c, "signup", err)
		return
	}

	profile, _ := mgr.Profile()
	c.JSON(http.StatusCreated, AuthResponse{
		IDToken:      ident.IDToken,
		RefreshToken: ident.RefreshToken,
		Profile:      profile,
	})
}

// Logout handles POST /api/v1/auth/logout (authenticated).
func (h *AuthHandler) Logout(c *gin.Context) {
	uid, email, ok := principalFromContext(c)
	if !ok {
		return
	}

	mgr := h.sessions.GetOrRestore(uid, email)
	if err := mgr.Logout(c.Request.Context()); err != nil {
		h.logger.Warn("Provider sign-out failed", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Sign out failed, please try again", Details: err.Error()})
		return
	}

	h.sessions.Evict(uid)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// ChangePassword handles POST /api/v1/auth/password (authenticated).
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	uid, email, ok := principalFromContext(c)
	if !ok {
		return
	}

	mgr := h.sessions.GetOrRestore(uid, email)
	if err := mgr.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Current password is incorrect"})
		case errors.Is(err, identity.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Password is too weak"})
		case errors.Is(err, session.ErrNotAuthenticated):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not signed in"})
		default:
			h.logger.Error("Password change failed", zap.String("uid", uid), zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to change password", Details: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// respondAuthError maps identity and session sentinels to HTTP statuses
// with the human-readable messages the client shows directly.
func (h *AuthHandler) respondAuthError(c *gin.Context, flow string, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
	case errors.Is(err, identity.ErrEmailInUse):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already in use"})
	case errors.Is(err, identity.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Password is too weak"})
	case errors.Is(err, identity.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid email address"})
	case errors.Is(err, session.ErrOperationInFlight):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Another request is already being processed"})
	default:
		h.logger.Error("Auth flow failed", zap.String("flow", flow), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Authentication failed", Details: err.Error()})
	}
}

// principalFromContext reads the UID and email the auth middleware stored.
// Writes the error response itself when the context is missing them.
func principalFromContext(c *gin.Context) (uid, email string, ok bool) {
	rawUID, exists := c.Get(middleware.ContextKeyUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return "", "", false
	}
	uid, valid := rawUID.(string)
	if !valid || uid == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID format in context"})
		return "", "", false
	}
	email = c.GetString(middleware.ContextKeyUserEmail)
	return uid, email, true
}
