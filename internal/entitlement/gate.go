package entitlement

import (
	"sync"

	"pestguide-backend-go/internal/models"
	"pestguide-backend-go/internal/session"
)

// State is the render state of a content-detail view.
type State int

const (
	// Locked renders the paywall prompt; the content body is withheld.
	Locked State = iota
	// Unlocked renders the full content body.
	Unlocked
)

// Gate is the per-detail-view state machine driven by IsLocked. It
// recomputes reactively on session changes, never by polling. The only
// Locked->Unlocked transition is a successful upgrade propagating through
// the session; no Unlocked->Locked transition exists in normal operation
// (downgrades are not implemented).
type Gate struct {
	isPaid  bool
	view    session.View
	release func()

	mu    sync.Mutex
	state State
}

// NewGate binds a gate to a content item's paid flag and a session view,
// computes the initial state, and subscribes for recomputation. Call
// Release when the view is torn down.
func NewGate(isPaid bool, view session.View) *Gate {
	g := &Gate{isPaid: isPaid, view: view}
	g.recompute()
	g.release = view.Subscribe(g.recompute)
	return g
}

// State returns the current render state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Release unsubscribes the gate from session changes.
func (g *Gate) Release() {
	if g.release != nil {
		g.release()
		g.release = nil
	}
}

func (g *Gate) recompute() {
	var profile *models.UserProfile
	if p, ok := g.view.Profile(); ok {
		profile = &p
	}

	next := Unlocked
	if IsLocked(g.isPaid, profile) {
		next = Locked
	}
	g.mu.Lock()
	g.state = next
	g.mu.Unlock()
}
