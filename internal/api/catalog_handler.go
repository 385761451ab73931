package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pestguide-backend-go/internal/catalog"
	"pestguide-backend-go/internal/entitlement"
	"pestguide-backend-go/internal/models"
	"pestguide-backend-go/internal/session"
)

const lockedContentMessage = "This content is only available to premium subscribers."

// upgradePath is the call-to-action target surfaced in paywall payloads.
const upgradePath = "/api/v1/users/me/upgrade"

// CatalogHandler serves guide, chemical, and service listings and detail
// views, applying the entitlement gate to paid detail content.
type CatalogHandler struct {
	catalog  *catalog.Service
	sessions *session.Registry
	logger   *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *catalog.Service, sessions *session.Registry, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService, sessions: sessions, logger: logger}
}

// ListGuides handles GET /api/v1/guides.
func (h *CatalogHandler) ListGuides(c *gin.Context) {
	view := h.sessionView(c)
	if view == nil {
		return
	}
	profile := h.currentProfile(view)
	guides := h.catalog.ListGuides(c.Request.Context())

	summaries := make([]GuideSummary, 0, len(guides))
	for _, g := range guides {
		summaries = append(summaries, GuideSummary{
			ID:          g.ID,
			Title:       g.Title,
			Description: g.Description,
			IsPaid:      g.IsPaid,
			ImageURL:    g.ImageURL,
			Locked:      entitlement.IsLocked(g.IsPaid, profile),
		})
	}
	c.JSON(http.StatusOK, summaries)
}

// GetGuide handles GET /api/v1/guides/:guideId. Locked guides return the
// paywall payload without the content body.
func (h *CatalogHandler) GetGuide(c *gin.Context) {
	guide, found := h.catalog.GetGuide(c.Request.Context(), c.Param("guideId"))
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Guide not found"})
		return
	}

	view := h.sessionView(c)
	if view == nil {
		return
	}
	gate := entitlement.NewGate(guide.IsPaid, view)
	defer gate.Release()

	if gate.State() == entitlement.Locked {
		c.JSON(http.StatusPaymentRequired, LockedContentResponse{
			ID:          guide.ID,
			Title:       guide.Title,
			Message:     lockedContentMessage,
			UpgradePath: upgradePath,
		})
		return
	}
	c.JSON(http.StatusOK, guide)
}

// ListChemicals handles GET /api/v1/chemicals.
func (h *CatalogHandler) ListChemicals(c *gin.Context) {
	view := h.sessionView(c)
	if view == nil {
		return
	}
	profile := h.currentProfile(view)
	chemicals := h.catalog.ListChemicals(c.Request.Context())

	summaries := make([]ChemicalSummary, 0, len(chemicals))
	for _, chem := range chemicals {
		summaries = append(summaries, ChemicalSummary{
			ID:          chem.ID,
			Title:       chem.Title,
			Description: chem.Description,
			IsPaid:      chem.IsPaid,
			ImageURL:    chem.ImageURL,
			Locked:      entitlement.IsLocked(chem.IsPaid, profile),
		})
	}
	c.JSON(http.StatusOK, summaries)
}

// GetChemical handles GET /api/v1/chemicals/:chemicalId. The gating check
// is identical to the guide detail view.
func (h *CatalogHandler) GetChemical(c *gin.Context) {
	chem, found := h.catalog.GetChemical(c.Request.Context(), c.Param("chemicalId"))
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Chemical not found"})
		return
	}

	view := h.sessionView(c)
	if view == nil {
		return
	}
	gate := entitlement.NewGate(chem.IsPaid, view)
	defer gate.Release()

	if gate.State() == entitlement.Locked {
		c.JSON(http.StatusPaymentRequired, LockedContentResponse{
			ID:          chem.ID,
			Title:       chem.Title,
			Message:     lockedContentMessage,
			UpgradePath: upgradePath,
		})
		return
	}
	c.JSON(http.StatusOK, chem)
}

// ListServices handles GET /api/v1/services.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services := h.catalog.ListServices(c.Request.Context())

	summaries := make([]ServiceSummary, 0, len(services))
	for _, svc := range services {
		summaries = append(summaries, ServiceSummary{
			ID:          svc.ID,
			Title:       svc.Title,
			Description: svc.Description,
			ImageURL:    svc.ImageURL,
			PriceRange:  svc.PriceRange,
		})
	}
	c.JSON(http.StatusOK, summaries)
}

// GetService handles GET /api/v1/services/:serviceId. Services are never gated.
func (h *CatalogHandler) GetService(c *gin.Context) {
	svc, found := h.catalog.GetService(c.Request.Context(), c.Param("serviceId"))
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Service not found"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

// sessionView returns the read-only session view for the authenticated
// principal, or nil when the auth context is missing (the error response
// is already written in that case).
func (h *CatalogHandler) sessionView(c *gin.Context) session.View {
	uid, email, ok := principalFromContext(c)
	if !ok {
		return nil
	}
	return h.sessions.GetOrRestore(uid, email)
}

// currentProfile returns the published profile, or nil when absent.
func (h *CatalogHandler) currentProfile(view session.View) *models.UserProfile {
	if view == nil {
		return nil
	}
	if p, ok := view.Profile(); ok {
		return &p
	}
	return nil
}
