package session

import "fitpulse/internal/models"

// ErrPending is returned while the gate has not resolved; dependent
// screens must not issue data requests in that state.
var ErrPending = models.NewUnauthorizedError("Session resolution pending")

// ErrSignedOut is returned when the gate resolved to no identity;
// dependent screens redirect to the sign-in entry point.
var ErrSignedOut = models.NewUnauthorizedError("Not signed in")

// Require returns the current identity, or the typed error for a gate
// that is still pending or resolved to none.
func Require(g *Gate) (Identity, error) {
	identity, state := g.Current()
	switch state {
	case Pending:
		return Identity{}, ErrPending
	case SignedOut:
		return Identity{}, ErrSignedOut
	}
	return *identity, nil
}
