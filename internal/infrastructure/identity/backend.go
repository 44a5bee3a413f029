// Package identity is a self-hosted implementation of the identity backend:
// credential verification, session issuance and revocation, profile storage,
// and auth-event fanout. Accounts live in MongoDB, sessions in Redis, and the
// access token is an HS256 JWT binding the two.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nutritionnest/coaching-api/internal/metrics"
	"github.com/nutritionnest/coaching-api/internal/core/domain"
	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

const defaultSessionTTL = 24 * time.Hour

// AccountStore abstracts the account persistence layer (MongoDB).
type AccountStore interface {
	Insert(ctx context.Context, name, email, passwordHash, role string) (string, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, string, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context, search string) ([]domain.User, error)
	Update(ctx context.Context, id string, fields ports.ProfileUpdate) error
	Delete(ctx context.Context, id string) error
}

// SessionCache abstracts session storage (Redis).
type SessionCache interface {
	Save(ctx context.Context, sessionID, accountID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (string, error)
	// Delete reports whether a live session was removed.
	Delete(ctx context.Context, sessionID string) (bool, error)
	RevokeAccount(ctx context.Context, accountID string) error
}

// Backend implements ports.IdentityBackend.
type Backend struct {
	accounts   AccountStore
	sessions   SessionCache
	jwtSecret  string
	sessionTTL time.Duration
	log        zerolog.Logger

	mu      sync.Mutex
	current *ports.SessionToken

	fanout *fanout
}

// NewBackend creates a Backend and starts its event delivery goroutine.
// Call Close to stop delivery.
func NewBackend(accounts AccountStore, sessions SessionCache, jwtSecret string, sessionTTL time.Duration, log zerolog.Logger) *Backend {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	b := &Backend{
		accounts:   accounts,
		sessions:   sessions,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		log:        log,
		fanout:     newFanout(log),
	}
	b.fanout.start()
	return b
}

// Close stops event delivery after draining pending events.
func (b *Backend) Close() {
	b.fanout.stop()
}

// GetSession returns the currently stored session, or nil when none.
func (b *Backend) GetSession(context.Context) (*ports.SessionToken, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil, nil
	}
	token := *b.current
	return &token, nil
}

// Subscribe registers a callback for auth events and returns an unsubscribe
// function. Events are delivered in order by a single goroutine.
func (b *Backend) Subscribe(fn func(ports.AuthEvent)) func() {
	return b.fanout.subscribe(fn)
}

// SignIn verifies credentials and starts a session. Blocked accounts cannot
// start new sessions; already-live sessions stay usable until they expire,
// which is what keeps route access intact for freshly blocked users.
func (b *Backend) SignIn(ctx context.Context, email, password string) (*ports.SessionToken, error) {
	user, hash, err := b.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.SignInsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.SignInsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		metrics.SignInsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if user.Blocked {
		metrics.SignInsTotal.WithLabelValues("blocked").Inc()
		return nil, domain.ErrAccountBlocked
	}

	sessionID := uuid.NewString()
	expiresAt := time.Now().UTC().Add(b.sessionTTL)
	if err := b.sessions.Save(ctx, sessionID, user.ID, b.sessionTTL); err != nil {
		metrics.SignInsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	signed, err := b.signToken(sessionID, user.ID, expiresAt)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	token := &ports.SessionToken{AccessToken: signed, AccountID: user.ID, ExpiresAt: expiresAt}

	b.mu.Lock()
	b.current = token
	b.mu.Unlock()

	metrics.SignInsTotal.WithLabelValues("ok").Inc()
	metrics.SessionsActive.Inc()
	b.log.Info().Str("account_id", user.ID).Msg("session started")
	b.fanout.emit(ports.AuthSignedIn, token)

	clone := *token
	return &clone, nil
}

// SignOut terminates the current session. The local session slot is cleared
// and the signed-out event emitted even when the remote delete fails; the
// Redis entry expires on its own.
func (b *Backend) SignOut(ctx context.Context) error {
	b.mu.Lock()
	current := b.current
	b.current = nil
	b.mu.Unlock()

	if current == nil {
		return nil
	}

	var deleteErr error
	removed := false
	if sessionID, _, err := b.parseToken(current.AccessToken); err == nil {
		removed, deleteErr = b.sessions.Delete(ctx, sessionID)
	}

	if removed {
		metrics.SessionsActive.Dec()
	}
	b.log.Info().Str("account_id", current.AccountID).Msg("session terminated")
	b.fanout.emit(ports.AuthSignedOut, nil)

	if deleteErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, deleteErr)
	}
	return nil
}

// RevokeToken deletes the session behind a raw bearer token. Used by the
// HTTP logout path, where the session to terminate is the caller's own, not
// the locally stored one. If the revoked session is also the stored one, the
// slot is cleared and subscribers are notified.
func (b *Backend) RevokeToken(ctx context.Context, raw string) error {
	sessionID, accountID, err := b.parseToken(raw)
	if err != nil {
		return domain.ErrSessionExpired
	}

	removed, err := b.sessions.Delete(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	b.mu.Lock()
	wasCurrent := b.current != nil && b.current.AccountID == accountID
	if wasCurrent {
		b.current = nil
	}
	b.mu.Unlock()

	// A second revocation of the same token deletes nothing and must not
	// drive the gauge negative.
	if removed {
		metrics.SessionsActive.Dec()
	}
	b.log.Info().Str("account_id", accountID).Msg("session revoked")
	if wasCurrent {
		b.fanout.emit(ports.AuthSignedOut, nil)
	}
	return nil
}

// ValidateToken resolves a raw bearer token to the account's live profile.
// Used by the HTTP auth middleware; a revoked or expired session surfaces as
// domain.ErrSessionExpired. Blocked profiles are returned as-is: blocking is
// enforced at sign-in and at the action layer, not here.
func (b *Backend) ValidateToken(ctx context.Context, raw string) (*domain.User, error) {
	sessionID, accountID, err := b.parseToken(raw)
	if err != nil {
		return nil, domain.ErrSessionExpired
	}

	storedAccount, err := b.sessions.Lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if storedAccount != accountID {
		return nil, domain.ErrSessionExpired
	}

	return b.accounts.FindByID(ctx, accountID)
}

func (b *Backend) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	return b.accounts.FindByID(ctx, id)
}

func (b *Backend) ListProfiles(ctx context.Context, search string) ([]domain.User, error) {
	return b.accounts.FindAll(ctx, search)
}

// CreateAccount provisions a new account with the member role. Role changes
// are a separate profile mutation.
func (b *Backend) CreateAccount(ctx context.Context, input ports.CreateAccountInput) (string, error) {
	if input.Email == "" || input.Password == "" {
		return "", domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	id, err := b.accounts.Insert(ctx, input.Name, input.Email, string(hash), domain.RoleMember)
	if err != nil {
		return "", err
	}
	b.log.Info().Str("account_id", id).Msg("account created")
	return id, nil
}

func (b *Backend) UpdateProfile(ctx context.Context, id string, fields ports.ProfileUpdate) error {
	return b.accounts.Update(ctx, id, fields)
}

// DeleteAccount removes the account and revokes all of its sessions. If the
// deleted account owns the current session, subscribers are told the session
// expired.
func (b *Backend) DeleteAccount(ctx context.Context, id string) error {
	if err := b.accounts.Delete(ctx, id); err != nil {
		return err
	}
	if err := b.sessions.RevokeAccount(ctx, id); err != nil {
		b.log.Error().Err(err).Str("account_id", id).Msg("session revocation after deletion failed")
	}

	b.mu.Lock()
	expired := b.current != nil && b.current.AccountID == id
	if expired {
		b.current = nil
	}
	b.mu.Unlock()

	if expired {
		b.fanout.emit(ports.AuthSessionExpired, nil)
	}
	return nil
}
