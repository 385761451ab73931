package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pestguide-backend-go/internal/session"
)

// ProfileHandler serves the current user's profile and the subscription
// upgrade action.
type ProfileHandler struct {
	sessions *session.Registry
	logger   *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(sessions *session.Registry, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{sessions: sessions, logger: logger}
}

// GetCurrentProfile handles GET /api/v1/users/me.
func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	uid, email, ok := principalFromContext(c)
	if !ok {
		return
	}

	mgr := h.sessions.GetOrRestore(uid, email)
	profile, loaded := mgr.Profile()
	if !loaded {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Upgrade handles POST /api/v1/users/me/upgrade. The write is a direct
// profile mutation with no payment verification, a placeholder for a real
// billing integration; it is not a security boundary.
func (h *ProfileHandler) Upgrade(c *gin.Context) {
	uid, email, ok := principalFromContext(c)
	if !ok {
		return
	}

	mgr := h.sessions.GetOrRestore(uid, email)
	if err := mgr.UpgradeToPremium(c.Request.Context()); err != nil {
		h.logger.Error("Premium upgrade failed", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Upgrade failed, please try again", Details: err.Error()})
		return
	}

	profile, loaded := mgr.Profile()
	if !loaded {
		// Upgrade with no loaded profile is a no-op by contract.
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
