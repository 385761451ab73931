package db

import (
	"context"

	"pestguide-backend-go/internal/models"
)

// ProfileRepository defines the storage operations for user profiles.
type ProfileRepository interface {
	// GetByUID returns the profile stored under the given identity UID,
	// or an error wrapping ErrNotFound when no document exists.
	GetByUID(ctx context.Context, uid string) (*models.UserProfile, error)
	// Create writes a brand-new profile document. Fails if one already exists.
	Create(ctx context.Context, profile *models.UserProfile) error
	// Set writes the profile with merge semantics: fields present in the
	// struct are written, everything else in the document is left alone.
	Set(ctx context.Context, profile *models.UserProfile) error
}

// CatalogRepository defines read-only access to the content collections.
// All reads are idempotent; concurrent fetches of the same collection are
// safe to race.
type CatalogRepository interface {
	ListGuides(ctx context.Context) ([]models.Guide, error)
	ListChemicals(ctx context.Context) ([]models.Chemical, error)
	ListServices(ctx context.Context) ([]models.Service, error)
}
