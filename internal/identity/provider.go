// Package identity wraps the external authentication provider behind the
// contract the session layer depends on: credential verification, account
// creation, sign-out, password update, and identity-change notifications
// with an explicit unsubscribe handle.
package identity

import (
	"context"
	"errors"
	"sync"
)

// Identity is the authenticated principal issued by the provider. It is
// transient: it exists only while a session is active and is owned by the
// provider. Tokens are passed through to the caller for subsequent
// authenticated requests; nothing in this repository stores them.
type Identity struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
}

// Provider-specific failure causes, mapped from the backend's error codes
// so callers can show a human-readable message.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// Provider is the abstract identity provider contract. Implementations
// emit an identity-change notification after every successful SignIn and
// SignUp (the new identity) and after every successful SignOut (nil).
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context, uid string) error
	UpdatePassword(ctx context.Context, uid, newPassword string) error
	// OnIdentityChange registers fn for identity-change notifications and
	// returns an unsubscribe handle, honored at teardown.
	OnIdentityChange(fn func(*Identity)) (unsubscribe func())
}

// hub fans identity-change notifications out to registered observers.
type hub struct {
	mu        sync.Mutex
	observers map[int]func(*Identity)
	nextID    int
}

func (h *hub) subscribe(fn func(*Identity)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.observers == nil {
		h.observers = make(map[int]func(*Identity))
	}
	id := h.nextID
	h.nextID++
	h.observers[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.observers, id)
	}
}

// publish invokes every observer with the new identity. Callbacks run
// outside the hub lock.
func (h *hub) publish(ident *Identity) {
	h.mu.Lock()
	fns := make([]func(*Identity), 0, len(h.observers))
	for _, fn := range h.observers {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}
