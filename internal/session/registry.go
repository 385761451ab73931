package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"pestguide-backend-go/internal/db"
	"pestguide-backend-go/internal/identity"
)

// Registry hands out one Manager per authenticated principal, so every
// principal has exactly one writer of its session state. Managers are
// created on login/signup, restored lazily for already-verified tokens
// (e.g. after a server restart), and closed on eviction so dangling
// operations cannot write state for a session that no longer exists.
type Registry struct {
	profiles db.ProfileRepository
	logger   *zap.Logger
	opts     Options

	// newProvider builds the identity client scope for one manager. Each
	// manager gets its own so notifications do not cross sessions.
	newProvider func() identity.Provider

	mu       sync.Mutex
	managers map[string]*Manager
}

// NewRegistry creates a Registry. newProvider is invoked once per manager
// to give each session its own identity-change stream.
func NewRegistry(newProvider func() identity.Provider, profiles db.ProfileRepository, logger *zap.Logger, opts Options) *Registry {
	return &Registry{
		profiles:    profiles,
		logger:      logger,
		opts:        opts,
		newProvider: newProvider,
		managers:    make(map[string]*Manager),
	}
}

// Login runs the credential flow on a fresh manager and, on success,
// adopts it as the principal's session.
func (r *Registry) Login(ctx context.Context, email, password string) (*identity.Identity, *Manager, error) {
	m := r.newManager()
	m.ObserveAuthChanges()
	ident, err := m.Login(ctx, email, password)
	if err != nil {
		m.Close()
		return nil, nil, err
	}
	r.adopt(ident.UID, m)
	return ident, m, nil
}

// Signup runs the account creation flow on a fresh manager and, on
// success, adopts it as the principal's session.
func (r *Registry) Signup(ctx context.Context, email, password string) (*identity.Identity, *Manager, error) {
	m := r.newManager()
	m.ObserveAuthChanges()
	ident, err := m.Signup(ctx, email, password)
	if err != nil {
		m.Close()
		return nil, nil, err
	}
	r.adopt(ident.UID, m)
	return ident, m, nil
}

// GetOrRestore returns the principal's manager. When none exists, a new
// one is created and fed an identity-present notification built from the
// already-verified token claims, which resolves (or repairs) the profile.
func (r *Registry) GetOrRestore(uid, email string) *Manager {
	r.mu.Lock()
	if m, ok := r.managers[uid]; ok {
		r.mu.Unlock()
		return m
	}
	r.mu.Unlock()

	m := r.newManager()
	m.ObserveAuthChanges()
	m.RestoreSession(&identity.Identity{UID: uid, Email: email})
	r.adopt(uid, m)
	return m
}

// Evict closes and removes the principal's manager, if any.
func (r *Registry) Evict(uid string) {
	r.mu.Lock()
	m, ok := r.managers[uid]
	delete(r.managers, uid)
	r.mu.Unlock()
	if ok {
		m.Close()
	}
}

func (r *Registry) newManager() *Manager {
	return NewManager(r.newProvider(), r.profiles, r.logger, r.opts)
}

// adopt stores m for uid, closing any manager it replaces.
func (r *Registry) adopt(uid string, m *Manager) {
	r.mu.Lock()
	old, had := r.managers[uid]
	r.managers[uid] = m
	r.mu.Unlock()
	if had && old != m {
		old.Close()
	}
}
