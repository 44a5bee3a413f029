package ports

import (
	"context"
	"time"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

// SessionToken identifies a live backend session for one account.
type SessionToken struct {
	AccessToken string
	AccountID   string
	ExpiresAt   time.Time
}

// AuthEventType classifies identity backend state transitions.
type AuthEventType string

const (
	AuthSignedIn       AuthEventType = "signed_in"
	AuthSignedOut      AuthEventType = "signed_out"
	AuthTokenRefreshed AuthEventType = "token_refreshed"
	AuthSessionExpired AuthEventType = "session_expired"
)

// AuthEvent is delivered to subscribers on every auth state transition.
// Seq is monotonically increasing across all events from one backend; the
// session store uses it to apply updates last-write-wins regardless of how
// long each subscriber callback takes.
type AuthEvent struct {
	Type  AuthEventType
	Token *SessionToken // nil for signed-out and expired events
	Seq   uint64
}

// LiveSession reports whether the event carries a usable session.
func (e AuthEvent) LiveSession() bool {
	return (e.Type == AuthSignedIn || e.Type == AuthTokenRefreshed) && e.Token != nil
}

// CreateAccountInput carries the fields needed to provision a new account.
type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileUpdate is a partial profile mutation; nil fields are left untouched.
type ProfileUpdate struct {
	Name    *string
	Email   *string
	Role    *string
	Blocked *bool
	PlanID  *string
}

// IdentityBackend is the credential and profile store this service consumes.
// Implementations must return domain sentinel errors for the conditions the
// callers distinguish: ErrInvalidCredentials, ErrAccountBlocked,
// ErrEmailTaken, ErrUserNotFound.
type IdentityBackend interface {
	// GetSession returns the current stored session, or (nil, nil) when none.
	GetSession(ctx context.Context) (*SessionToken, error)
	// Subscribe registers a callback for auth events and returns an
	// unsubscribe function. Events are delivered in Seq order.
	Subscribe(fn func(AuthEvent)) (unsubscribe func())
	// SignIn validates credentials and starts a session. The session is also
	// announced through Subscribe; callers that only care about the outcome
	// may discard the returned token.
	SignIn(ctx context.Context, email, password string) (*SessionToken, error)
	// SignOut terminates the current session.
	SignOut(ctx context.Context) error

	GetProfile(ctx context.Context, id string) (*domain.User, error)
	ListProfiles(ctx context.Context, search string) ([]domain.User, error)
	CreateAccount(ctx context.Context, input CreateAccountInput) (string, error)
	UpdateProfile(ctx context.Context, id string, fields ProfileUpdate) error
	DeleteAccount(ctx context.Context, id string) error
}
