package ports

import (
	"context"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

// SessionStore owns the single live identity for an embedding process.
// There is exactly one writer path: hydration and auth events replace the
// identity wholesale; Login never writes it directly.
type SessionStore interface {
	// Hydrate restores an existing session once at startup. It always leaves
	// the session ready, whether or not an identity was recovered.
	Hydrate(ctx context.Context)
	// Login delegates the credential check to the identity backend. On
	// failure the returned reason is the backend's rejection message.
	Login(ctx context.Context, email, password string) (ok bool, reason string)
	// Logout terminates the backend session and clears the identity locally
	// even when the remote call fails.
	Logout(ctx context.Context)
	// Snapshot returns an immutable copy of the current session.
	Snapshot() domain.Session
	// Close detaches the store from backend auth events.
	Close()
}
