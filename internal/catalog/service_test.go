package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pestguide-backend-go/internal/models"
)

type fakeCatalogRepo struct {
	listGuidesFunc    func(ctx context.Context) ([]models.Guide, error)
	listChemicalsFunc func(ctx context.Context) ([]models.Chemical, error)
	listServicesFunc  func(ctx context.Context) ([]models.Service, error)
}

func (r *fakeCatalogRepo) ListGuides(ctx context.Context) ([]models.Guide, error) {
	return r.listGuidesFunc(ctx)
}

func (r *fakeCatalogRepo) ListChemicals(ctx context.Context) ([]models.Chemical, error) {
	return r.listChemicalsFunc(ctx)
}

func (r *fakeCatalogRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	return r.listServicesFunc(ctx)
}

func TestListChemicals_EmptyCollectionServesFallback(t *testing.T) {
	repo := &fakeCatalogRepo{
		listChemicalsFunc: func(ctx context.Context) ([]models.Chemical, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, zap.NewNop())

	chemicals := svc.ListChemicals(context.Background())
	require.Len(t, chemicals, 3)
	assert.Equal(t, "Boric Acid", chemicals[0].Title)
	assert.False(t, chemicals[0].IsPaid)
	assert.Equal(t, "Imidacloprid (Professional)", chemicals[2].Title)
	assert.True(t, chemicals[2].IsPaid)
}

func TestListGuides_FetchFailureServesFallback(t *testing.T) {
	repo := &fakeCatalogRepo{
		listGuidesFunc: func(ctx context.Context) ([]models.Guide, error) {
			return nil, errors.New("firestore unavailable")
		},
	}
	svc := NewService(repo, zap.NewNop())

	guides := svc.ListGuides(context.Background())
	require.Len(t, guides, 4)

	var paid int
	for _, g := range guides {
		if g.IsPaid {
			paid++
		}
	}
	assert.Equal(t, 2, paid)
}

func TestListGuides_PopulatedCollectionPassesThrough(t *testing.T) {
	remote := []models.Guide{
		{ID: "g-100", Title: "Wasp Nest Removal", IsPaid: true},
	}
	repo := &fakeCatalogRepo{
		listGuidesFunc: func(ctx context.Context) ([]models.Guide, error) {
			return remote, nil
		},
	}
	svc := NewService(repo, zap.NewNop())

	guides := svc.ListGuides(context.Background())
	require.Len(t, guides, 1)
	assert.Equal(t, "Wasp Nest Removal", guides[0].Title)
}

func TestListServices_EmptyCollectionServesFallback(t *testing.T) {
	repo := &fakeCatalogRepo{
		listServicesFunc: func(ctx context.Context) ([]models.Service, error) {
			return []models.Service{}, nil
		},
	}
	svc := NewService(repo, zap.NewNop())

	services := svc.ListServices(context.Background())
	require.Len(t, services, 2)
	assert.Equal(t, "$100 - $150", services[0].PriceRange)
	assert.Equal(t, "Call for Quote", services[1].PriceRange)
}

func TestGetChemical_ByID(t *testing.T) {
	repo := &fakeCatalogRepo{
		listChemicalsFunc: func(ctx context.Context) ([]models.Chemical, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, zap.NewNop())

	chem, ok := svc.GetChemical(context.Background(), "3")
	require.True(t, ok)
	assert.True(t, chem.IsPaid)

	_, ok = svc.GetChemical(context.Background(), "does-not-exist")
	assert.False(t, ok)
}

func TestGetGuide_ByID(t *testing.T) {
	repo := &fakeCatalogRepo{
		listGuidesFunc: func(ctx context.Context) ([]models.Guide, error) {
			return []models.Guide{
				{ID: "g-1", Title: "Cockroach Basics", IsPaid: false},
				{ID: "g-2", Title: "Flea Eradication", IsPaid: true},
			}, nil
		},
	}
	svc := NewService(repo, zap.NewNop())

	guide, ok := svc.GetGuide(context.Background(), "g-2")
	require.True(t, ok)
	assert.Equal(t, "Flea Eradication", guide.Title)
}
