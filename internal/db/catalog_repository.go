package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"pestguide-backend-go/internal/models"
)

const (
	guidesCollection    = "guides"
	chemicalsCollection = "chemicals"
	servicesCollection  = "services"
)

// firestoreCatalogRepository implements CatalogRepository over the three
// content collections. Documents are mapped defensively: a missing title
// becomes "Untitled" rather than failing the whole listing, since the
// collections are edited by hand and sparse documents do occur.
type firestoreCatalogRepository struct {
	client *firestore.Client
}

// NewFirestoreCatalogRepository creates a CatalogRepository backed by the
// given Firestore client.
func NewFirestoreCatalogRepository(client *firestore.Client) CatalogRepository {
	return &firestoreCatalogRepository{client: client}
}

// ListGuides returns every document in the guides collection in document-ID order.
func (r *firestoreCatalogRepository) ListGuides(ctx context.Context) ([]models.Guide, error) {
	var guides []models.Guide
	err := r.forEachDoc(ctx, guidesCollection, func(doc *firestore.DocumentSnapshot) error {
		var g models.Guide
		if err := doc.DataTo(&g); err != nil {
			return err
		}
		g.ID = doc.Ref.ID
		if g.Title == "" {
			g.Title = "Untitled"
		}
		guides = append(guides, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return guides, nil
}

// ListChemicals returns every document in the chemicals collection in document-ID order.
func (r *firestoreCatalogRepository) ListChemicals(ctx context.Context) ([]models.Chemical, error) {
	var chemicals []models.Chemical
	err := r.forEachDoc(ctx, chemicalsCollection, func(doc *firestore.DocumentSnapshot) error {
		var c models.Chemical
		if err := doc.DataTo(&c); err != nil {
			return err
		}
		c.ID = doc.Ref.ID
		if c.Title == "" {
			c.Title = "Untitled"
		}
		chemicals = append(chemicals, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chemicals, nil
}

// ListServices returns every document in the services collection in document-ID order.
func (r *firestoreCatalogRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.forEachDoc(ctx, servicesCollection, func(doc *firestore.DocumentSnapshot) error {
		var s models.Service
		if err := doc.DataTo(&s); err != nil {
			return err
		}
		s.ID = doc.Ref.ID
		if s.Title == "" {
			s.Title = "Untitled Service"
		}
		services = append(services, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return services, nil
}

// forEachDoc iterates a whole collection, invoking fn per document.
// Decode errors from fn abort the iteration so the caller can fall back to
// its static dataset instead of serving a partial listing.
func (r *firestoreCatalogRepository) forEachDoc(ctx context.Context, collection string, fn func(*firestore.DocumentSnapshot) error) error {
	iter := r.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to iterate collection '%s': %w", collection, err)
		}
		if err := fn(doc); err != nil {
			return fmt.Errorf("failed to decode document '%s/%s': %w", collection, doc.Ref.ID, err)
		}
	}
	return nil
}
