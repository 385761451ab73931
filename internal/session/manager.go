// Package session owns the mapping from an authenticated identity to the
// locally-held user profile. The Manager is the single writer of the
// published profile state; every other consumer sees it through the
// read-only View interface.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"pestguide-backend-go/internal/db"
	"pestguide-backend-go/internal/identity"
	"pestguide-backend-go/internal/models"
)

var (
	// ErrNotAuthenticated is returned by operations that require a loaded profile.
	ErrNotAuthenticated = errors.New("no authenticated session")
	// ErrSignOut wraps a provider sign-out failure.
	ErrSignOut = errors.New("sign out failed")
	// ErrOperationInFlight is returned when an explicit auth operation is
	// requested while another is still running for the same session.
	ErrOperationInFlight = errors.New("another auth operation is in flight")
)

// View is the read-only surface of a session, handed to consumers that
// must not mutate it (navigation, entitlement gates).
type View interface {
	// Profile returns the published profile and whether one is loaded.
	Profile() (models.UserProfile, bool)
	// Loading reports whether an auth operation or profile resolution is
	// in flight.
	Loading() bool
	// Subscribe registers fn to run after each state change and returns
	// an unsubscribe handle.
	Subscribe(fn func()) (unsubscribe func())
}

// Options tune session policies that are deployment decisions.
type Options struct {
	// ClearProfileOnLogoutFailure forces a local profile clear even when
	// the provider sign-out fails. Default false: the profile stays so
	// the user can retry.
	ClearProfileOnLogoutFailure bool
	// ResolveTimeout bounds profile resolution triggered by an
	// identity-change notification. Zero means no deadline.
	ResolveTimeout time.Duration
}

// Manager reconciles identity-change notifications with the profile store
// and exposes the result as shared session state.
type Manager struct {
	provider identity.Provider
	profiles db.ProfileRepository
	logger   *zap.Logger
	opts     Options

	mu            sync.Mutex
	profile       *models.UserProfile
	loading       bool
	closed        bool
	pendingSignup bool
	subscribers   map[int]func()
	nextSubID     int
	unobserve     func()
}

// NewManager creates a Manager. Call ObserveAuthChanges before any auth
// operation so notifications are not lost, and Close at teardown.
func NewManager(provider identity.Provider, profiles db.ProfileRepository, logger *zap.Logger, opts Options) *Manager {
	return &Manager{
		provider:    provider,
		profiles:    profiles,
		logger:      logger,
		opts:        opts,
		subscribers: make(map[int]func()),
	}
}

// ObserveAuthChanges registers for identity-change notifications for the
// lifetime of the manager. This is the sole path that mutates the shared
// profile outside of explicit user actions.
func (m *Manager) ObserveAuthChanges() {
	m.mu.Lock()
	already := m.unobserve != nil
	m.mu.Unlock()
	if already {
		return
	}
	unobserve := m.provider.OnIdentityChange(m.handleIdentityChange)
	m.mu.Lock()
	m.unobserve = unobserve
	m.mu.Unlock()
}

// Close unsubscribes from the provider and marks the manager closed so
// in-flight operations stop writing state.
func (m *Manager) Close() {
	m.mu.Lock()
	unobserve := m.unobserve
	m.unobserve = nil
	m.closed = true
	m.mu.Unlock()
	if unobserve != nil {
		unobserve()
	}
}

// Profile returns the published profile and whether one is loaded.
func (m *Manager) Profile() (models.UserProfile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return models.UserProfile{}, false
	}
	return *m.profile, true
}

// Loading reports whether an auth operation or resolution is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Subscribe registers fn to run after each state change. The returned
// handle removes the subscription.
func (m *Manager) Subscribe(fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

// Login delegates credential verification to the provider. The profile
// load itself happens through the resulting identity-change notification.
// The loading flag is set on entry and guaranteed reset on every exit.
func (m *Manager) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	if err := m.beginOperation(); err != nil {
		return nil, err
	}
	defer m.endOperation()

	ident, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return ident, nil
}

// Signup creates the identity, then explicitly creates and persists the
// default profile. If the profile write fails the caller does not observe
// a signed-in state; the provider stays authoritative for the identity half.
func (m *Manager) Signup(ctx context.Context, email, password string) (*identity.Identity, error) {
	if err := m.beginOperation(); err != nil {
		return nil, err
	}
	defer m.endOperation()

	// The provider publishes an identity-change for the new account. The
	// explicit create below owns profile creation for signup, so the
	// notification handler must not run the repair path concurrently.
	m.mu.Lock()
	m.pendingSignup = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.pendingSignup = false
		m.mu.Unlock()
	}()

	ident, err := m.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	newProfile := &models.UserProfile{
		UID:       ident.UID,
		Email:     email,
		IsPremium: false,
	}
	if err := m.profiles.Create(ctx, newProfile); err != nil {
		m.setProfile(nil)
		return nil, fmt.Errorf("signup succeeded with the provider but the profile write failed: %w", err)
	}
	m.setProfile(newProfile)

	return ident, nil
}

// Logout requests provider sign-out. On success the resulting notification
// clears the profile. On failure the local profile is kept unless the
// ClearProfileOnLogoutFailure policy says otherwise, and ErrSignOut is
// returned either way.
func (m *Manager) Logout(ctx context.Context) error {
	profile, ok := m.Profile()
	if !ok {
		return nil
	}

	if err := m.provider.SignOut(ctx, profile.UID); err != nil {
		if m.opts.ClearProfileOnLogoutFailure {
			m.setProfile(nil)
		}
		return fmt.Errorf("%w: %v", ErrSignOut, err)
	}
	return nil
}

// UpgradeToPremium merges {isPremium:true} into the persisted profile and
// only then updates the published profile. The UI must never see premium
// before the backing store confirms it. No-op when no profile is loaded.
func (m *Manager) UpgradeToPremium(ctx context.Context) error {
	profile, ok := m.Profile()
	if !ok {
		return nil
	}

	upgraded := profile
	upgraded.IsPremium = true
	if err := m.profiles.Set(ctx, &upgraded); err != nil {
		return fmt.Errorf("failed to persist premium upgrade for uid '%s': %w", profile.UID, err)
	}
	m.setProfile(&upgraded)
	return nil
}

// ChangePassword re-verifies the current password with the provider, then
// applies the new one. Profile fields are untouched.
func (m *Manager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	profile, ok := m.Profile()
	if !ok {
		return ErrNotAuthenticated
	}

	if _, err := m.provider.SignIn(ctx, profile.Email, currentPassword); err != nil {
		return fmt.Errorf("current password verification failed: %w", err)
	}
	return m.provider.UpdatePassword(ctx, profile.UID, newPassword)
}

// RestoreSession replays an identity-present notification for a principal
// whose identity was verified out of band (a valid ID token seen before
// this manager existed, e.g. after a server restart). It runs the same
// resolution path an ordinary notification would.
func (m *Manager) RestoreSession(ident *identity.Identity) {
	m.handleIdentityChange(ident)
}

// handleIdentityChange is the notification callback registered with the
// provider: identity absent clears the profile, identity present resolves
// one (fetch, or synthesize-and-repair when the document is missing).
func (m *Manager) handleIdentityChange(ident *identity.Identity) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	skip := m.pendingSignup && ident != nil
	m.mu.Unlock()
	if skip {
		return
	}

	m.setLoading(true)
	defer m.setLoading(false)

	if ident == nil {
		m.setProfile(nil)
		return
	}

	ctx := context.Background()
	if m.opts.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.ResolveTimeout)
		defer cancel()
	}
	m.resolveProfile(ctx, ident)
}

// resolveProfile implements the resolution algorithm: fetch by UID,
// publish as-is when found; when absent, synthesize the default profile,
// publish it immediately, and persist it best-effort (the repair path for
// legacy or partially-created accounts).
func (m *Manager) resolveProfile(ctx context.Context, ident *identity.Identity) {
	stored, err := m.profiles.GetByUID(ctx, ident.UID)
	if err == nil {
		m.setProfile(stored)
		return
	}

	if !errors.Is(err, db.ErrNotFound) {
		// Read-path failure during passive reconciliation: logged, not
		// surfaced. The previous published state stays usable.
		m.logger.Warn("Profile fetch failed during identity resolution",
			zap.String("uid", ident.UID), zap.Error(err))
		return
	}

	repaired := &models.UserProfile{
		UID:       ident.UID,
		Email:     ident.Email,
		IsPremium: false,
	}
	m.setProfile(repaired)

	if err := m.profiles.Set(ctx, repaired); err != nil {
		// The in-memory profile is already usable for this session.
		m.logger.Warn("Failed to persist repaired profile",
			zap.String("uid", ident.UID), zap.Error(err))
	}
}

// beginOperation sets the loading flag, rejecting re-entrant explicit
// operations on the same session.
func (m *Manager) beginOperation() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrNotAuthenticated
	}
	if m.loading {
		return ErrOperationInFlight
	}
	m.loading = true
	return nil
}

func (m *Manager) endOperation() {
	m.mu.Lock()
	m.loading = false
	fns := m.snapshotSubscribersLocked()
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.loading = v
	fns := m.snapshotSubscribersLocked()
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (m *Manager) setProfile(p *models.UserProfile) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.profile = p
	fns := m.snapshotSubscribersLocked()
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// snapshotSubscribersLocked copies the subscriber list so callbacks run
// outside the lock.
func (m *Manager) snapshotSubscribersLocked() []func() {
	fns := make([]func(), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	return fns
}
