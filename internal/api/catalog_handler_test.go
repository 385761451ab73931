package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pestguide-backend-go/internal/catalog"
	"pestguide-backend-go/internal/db"
	"pestguide-backend-go/internal/identity"
	"pestguide-backend-go/internal/middleware"
	"pestguide-backend-go/internal/models"
	"pestguide-backend-go/internal/session"
)

// memProfileStore is an in-memory db.ProfileRepository shared across the
// managers a test creates.
type memProfileStore struct {
	mu       sync.Mutex
	profiles map[string]models.UserProfile
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[string]models.UserProfile)}
}

func (s *memProfileStore) GetByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[uid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &p, nil
}

func (s *memProfileStore) Create(ctx context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UID] = *profile
	return nil
}

func (s *memProfileStore) Set(ctx context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UID] = *profile
	return nil
}

// stubProvider is an identity.Provider whose credential flows always
// succeed, with the notification contract of the real provider.
type stubProvider struct {
	uid string

	mu        sync.Mutex
	observers []func(*identity.Identity)
}

func (p *stubProvider) SignIn(ctx context.Context, email, password string) (*identity.Identity, error) {
	ident := &identity.Identity{UID: p.uid, Email: email, IDToken: "id-token", RefreshToken: "refresh-token"}
	p.publish(ident)
	return ident, nil
}

func (p *stubProvider) SignUp(ctx context.Context, email, password string) (*identity.Identity, error) {
	ident := &identity.Identity{UID: p.uid, Email: email, IDToken: "id-token", RefreshToken: "refresh-token"}
	p.publish(ident)
	return ident, nil
}

func (p *stubProvider) SignOut(ctx context.Context, uid string) error {
	p.publish(nil)
	return nil
}

func (p *stubProvider) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	return nil
}

func (p *stubProvider) OnIdentityChange(fn func(*identity.Identity)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
	return func() {}
}

func (p *stubProvider) publish(ident *identity.Identity) {
	p.mu.Lock()
	fns := append([]func(*identity.Identity){}, p.observers...)
	p.mu.Unlock()
	for _, fn := range fns {
		fn(ident)
	}
}

// emptyCatalogRepo forces every collection onto the fallback data.
type emptyCatalogRepo struct{}

func (emptyCatalogRepo) ListGuides(ctx context.Context) ([]models.Guide, error)       { return nil, nil }
func (emptyCatalogRepo) ListChemicals(ctx context.Context) ([]models.Chemical, error) { return nil, nil }
func (emptyCatalogRepo) ListServices(ctx context.Context) ([]models.Service, error)   { return nil, nil }

// newTestRouter wires the API surface with a stub auth middleware that
// injects the given principal instead of verifying a real token.
func newTestRouter(sessions *session.Registry, uid, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	router := gin.New()
	authStub := func(c *gin.Context) {
		if uid != "" {
			c.Set(middleware.ContextKeyUserID, uid)
			c.Set(middleware.ContextKeyUserEmail, email)
		}
		c.Next()
	}

	catalogService := catalog.NewService(emptyCatalogRepo{}, logger)
	authHandler := NewAuthHandler(sessions, logger)
	profileHandler := NewProfileHandler(sessions, logger)
	catalogHandler := NewCatalogHandler(catalogService, sessions, logger)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/signup", authHandler.Signup)
	v1.POST("/auth/login", authHandler.Login)

	authed := v1.Group("")
	authed.Use(authStub)
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/users/me", profileHandler.GetCurrentProfile)
	authed.POST("/users/me/upgrade", profileHandler.Upgrade)
	authed.GET("/chemicals", catalogHandler.ListChemicals)
	authed.GET("/chemicals/:chemicalId", catalogHandler.GetChemical)
	authed.GET("/guides", catalogHandler.ListGuides)
	authed.GET("/guides/:guideId", catalogHandler.GetGuide)
	authed.GET("/services", catalogHandler.ListServices)
	authed.GET("/services/:serviceId", catalogHandler.GetService)

	return router
}

func newTestRegistry(store *memProfileStore, uid string) *session.Registry {
	return session.NewRegistry(
		func() identity.Provider { return &stubProvider{uid: uid} },
		store, zap.NewNop(), session.Options{},
	)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSignupThenPaywallThenUpgrade(t *testing.T) {
	store := newMemProfileStore()
	sessions := newTestRegistry(store, "uid-1")
	router := newTestRouter(sessions, "uid-1", "ana@example.com")

	// Signup creates the default non-premium profile.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup",
		gin.H{"email": "ana@example.com", "password": "secret123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var authResp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &authResp))
	assert.Equal(t, "id-token", authResp.IDToken)
	assert.Equal(t, "uid-1", authResp.Profile.UID)
	assert.False(t, authResp.Profile.IsPremium)

	// The paid chemical is marked locked in the list view.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/chemicals", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var chemicals []ChemicalSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chemicals))
	require.Len(t, chemicals, 3)
	assert.False(t, chemicals[0].Locked)
	assert.True(t, chemicals[2].Locked)

	// The paid detail view is paywalled: no content body.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/chemicals/3", nil)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var paywall LockedContentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paywall))
	assert.Equal(t, "3", paywall.ID)
	assert.Equal(t, "/api/v1/users/me/upgrade", paywall.UpgradePath)
	assert.NotContains(t, rec.Body.String(), "neurotoxin")

	// Free content is served in full regardless.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/chemicals/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Boric acid")

	// Upgrade persists premium and returns the updated profile.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/users/me/upgrade", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var upgraded models.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upgraded))
	assert.True(t, upgraded.IsPremium)

	stored, err := store.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.True(t, stored.IsPremium, "the store must confirm premium before the response")

	// The formerly paywalled detail now serves its content.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/chemicals/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "neurotoxin")
}

func TestGuideListMarksLocksForRestoredSession(t *testing.T) {
	store := newMemProfileStore()
	require.NoError(t, store.Create(context.Background(),
		&models.UserProfile{UID: "uid-2", Email: "leo@example.com", IsPremium: false}))

	// A fresh registry simulates a server restart: the session is restored
	// from the verified token claims on first use.
	sessions := newTestRegistry(store, "uid-2")
	router := newTestRouter(sessions, "uid-2", "leo@example.com")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/guides", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var guides []GuideSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &guides))
	require.Len(t, guides, 4)
	for _, g := range guides {
		assert.Equal(t, g.IsPaid, g.Locked, "non-premium locks exactly the paid guides")
	}
}

func TestServicesAreNeverGated(t *testing.T) {
	store := newMemProfileStore()
	sessions := newTestRegistry(store, "uid-3")
	router := newTestRouter(sessions, "uid-3", "zoe@example.com")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/services/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "certified technicians")
}

func TestGetCurrentProfile_RepairsMissingDocument(t *testing.T) {
	store := newMemProfileStore()
	sessions := newTestRegistry(store, "legacy-uid")
	router := newTestRouter(sessions, "legacy-uid", "old@example.com")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/users/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "legacy-uid", profile.UID)
	assert.Equal(t, "old@example.com", profile.Email)
	assert.False(t, profile.IsPremium)

	stored, err := store.GetByUID(context.Background(), "legacy-uid")
	require.NoError(t, err)
	assert.Equal(t, "old@example.com", stored.Email, "the repaired profile is persisted")
}

func TestUnknownChemicalReturns404(t *testing.T) {
	store := newMemProfileStore()
	sessions := newTestRegistry(store, "uid-4")
	router := newTestRouter(sessions, "uid-4", "ana@example.com")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/chemicals/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMissingPrincipalIsRejected(t *testing.T) {
	store := newMemProfileStore()
	sessions := newTestRegistry(store, "uid-5")
	router := newTestRouter(sessions, "", "")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/chemicals", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	store := newMemProfileStore()
	sessions := newTestRegistry(store, "uid-6")
	router := newTestRouter(sessions, "uid-6", "ana@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup",
		gin.H{"email": "ana@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutEvictsSession(t *testing.T) {
	store := newMemProfileStore()
	sessions := newTestRegistry(store, "uid-7")
	router := newTestRouter(sessions, "uid-7", "ana@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		gin.H{"email": "ana@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The next authenticated request restores a fresh session from the
	// store, repairing the profile if needed.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
