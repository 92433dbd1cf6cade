// Package session resolves and tracks the authenticated identity. The
// Gate is the single answer to "who is acting right now": while it is
// pending, no dependent screen may issue data requests; once it resolves
// to none, dependent screens redirect to the sign-in entry point.
package session

import "sync"

// State is the resolution state of the current session.
type State int

const (
	// Pending means resolution is still in flight.
	Pending State = iota
	// SignedIn means an identity is present.
	SignedIn
	// SignedOut means resolution finished with no identity. Resolution
	// failures are treated the same way; there is no retry.
	SignedOut
)

// Identity is the authenticated actor performing actions.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Gate holds the current session state and notifies subscribers on every
// transition. It starts Pending.
type Gate struct {
	mu       sync.RWMutex
	state    State
	identity *Identity
	subs     []func(State, *Identity)
}

// NewGate creates a Gate in the Pending state.
func NewGate() *Gate {
	return &Gate{state: Pending}
}

// Current returns the identity (nil unless signed in) and the state.
func (g *Gate) Current() (*Identity, State) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.identity, g.state
}

// Resolve marks the session as signed in with the given identity.
func (g *Gate) Resolve(identity Identity) {
	g.set(SignedIn, &identity)
}

// ResolveNone marks the session as signed out. Callers also use this for
// resolution failures, which the contract treats as unauthenticated.
func (g *Gate) ResolveNone() {
	g.set(SignedOut, nil)
}

// Subscribe registers fn to run on every subsequent state transition.
func (g *Gate) Subscribe(fn func(State, *Identity)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subs = append(g.subs, fn)
}

func (g *Gate) set(state State, identity *Identity) {
	g.mu.Lock()
	g.state = state
	g.identity = identity
	subs := make([]func(State, *Identity), len(g.subs))
	copy(subs, g.subs)
	g.mu.Unlock()

	for _, fn := range subs {
		fn(state, identity)
	}
}
