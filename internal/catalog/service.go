// Package catalog serves the content collections (guides, chemicals,
// services) with static fallback data when the remote store is empty or
// unreachable. A catalog fetch never fails from the caller's perspective.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"pestguide-backend-go/internal/db"
	"pestguide-backend-go/internal/models"
)

// Service reads the content collections through a CatalogRepository.
type Service struct {
	repo   db.CatalogRepository
	logger *zap.Logger
}

// NewService creates a catalog Service.
func NewService(repo db.CatalogRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListGuides returns the guides collection, or the built-in guides when
// the collection is empty or the fetch fails.
func (s *Service) ListGuides(ctx context.Context) []models.Guide {
	guides, err := s.repo.ListGuides(ctx)
	if err != nil {
		s.logger.Warn("Guides fetch failed, serving fallback data", zap.Error(err))
		return fallbackGuides()
	}
	if len(guides) == 0 {
		s.logger.Info("Guides collection is empty, serving fallback data")
		return fallbackGuides()
	}
	return guides
}

// ListChemicals returns the chemicals collection, or the built-in
// chemicals when the collection is empty or the fetch fails.
func (s *Service) ListChemicals(ctx context.Context) []models.Chemical {
	chemicals, err := s.repo.ListChemicals(ctx)
	if err != nil {
		s.logger.Warn("Chemicals fetch failed, serving fallback data", zap.Error(err))
		return fallbackChemicals()
	}
	if len(chemicals) == 0 {
		s.logger.Info("Chemicals collection is empty, serving fallback data")
		return fallbackChemicals()
	}
	return chemicals
}

// ListServices returns the services collection, or the built-in services
// when the collection is empty or the fetch fails.
func (s *Service) ListServices(ctx context.Context) []models.Service {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		s.logger.Warn("Services fetch failed, serving fallback data", zap.Error(err))
		return fallbackServices()
	}
	if len(services) == 0 {
		s.logger.Info("Services collection is empty, serving fallback data")
		return fallbackServices()
	}
	return services
}

// GetGuide returns a single guide by ID, and whether it was found.
func (s *Service) GetGuide(ctx context.Context, id string) (models.Guide, bool) {
	for _, g := range s.ListGuides(ctx) {
		if g.ID == id {
			return g, true
		}
	}
	return models.Guide{}, false
}

// GetChemical returns a single chemical by ID, and whether it was found.
func (s *Service) GetChemical(ctx context.Context, id string) (models.Chemical, bool) {
	for _, c := range s.ListChemicals(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return models.Chemical{}, false
}

// GetService returns a single service offering by ID, and whether it was found.
func (s *Service) GetService(ctx context.Context, id string) (models.Service, bool) {
	for _, svc := range s.ListServices(ctx) {
		if svc.ID == id {
			return svc, true
		}
	}
	return models.Service{}, false
}
