package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

// SessionStore holds the single live identity for the process. All writes go
// through applyUpdate, which replaces the identity wholesale under the mutex
// so readers never observe a half-updated session.
//
// Ordering: every auth event carries a monotonic sequence number assigned by
// the backend. An update is applied only if its sequence is newer than the
// one currently applied, so an event that completes after a slow Hydrate is
// the one left visible, independent of call-start order.
type SessionStore struct {
	backend ports.IdentityBackend
	log     zerolog.Logger

	mu          sync.Mutex
	identity    *domain.User
	status      domain.SessionStatus
	appliedSeq  uint64
	unsubscribe func()
}

// NewSessionStore creates the store and subscribes it to backend auth events.
// Call Hydrate once afterwards to restore any existing session.
func NewSessionStore(backend ports.IdentityBackend, log zerolog.Logger) *SessionStore {
	s := &SessionStore{
		backend: backend,
		log:     log,
		status:  domain.SessionInitializing,
	}
	s.unsubscribe = backend.Subscribe(s.onAuthEvent)
	return s
}

// Hydrate restores an existing backend session. Any failure is logged and
// leaves the identity absent: the store fails open to "logged out", never to
// a stale or partial identity. The session becomes ready unconditionally.
func (s *SessionStore) Hydrate(ctx context.Context) {
	defer s.markReady()

	token, err := s.backend.GetSession(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session hydration failed")
		return
	}
	if token == nil {
		return
	}

	profile, err := s.backend.GetProfile(ctx, token.AccountID)
	if err != nil {
		s.log.Error().Err(err).Str("account_id", token.AccountID).Msg("profile fetch failed during hydration")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// An auth event may have landed while the fetch was in flight; the event
	// is more recent and wins.
	if s.appliedSeq == 0 {
		s.identity = profile.Clone()
	}
}

// onAuthEvent is the subscription callback: the one writer path for the
// identity after startup.
func (s *SessionStore) onAuthEvent(ev ports.AuthEvent) {
	if !ev.LiveSession() {
		s.applyUpdate(ev.Seq, nil, true)
		return
	}

	profile, err := s.backend.GetProfile(context.Background(), ev.Token.AccountID)
	if err != nil {
		// A fetch failure must not overwrite a previously valid identity
		// with a corrupt or empty one; report and keep what we have.
		s.log.Error().Err(err).
			Str("event", string(ev.Type)).
			Str("account_id", ev.Token.AccountID).
			Msg("profile fetch failed during auth event")
		return
	}
	s.applyUpdate(ev.Seq, profile.Clone(), false)
}

// applyUpdate installs a new identity value if seq is newer than the last
// applied update. clear forces the identity to nil (signed-out events).
// An applied update also marks the session ready: the identity is now
// authoritative even if Hydrate has not finished. An event that applies
// nothing must not, or hydration could briefly surface ready-with-absent
// where Pending is the correct answer.
func (s *SessionStore) applyUpdate(seq uint64, identity *domain.User, clear bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.appliedSeq {
		s.log.Debug().Uint64("seq", seq).Uint64("applied", s.appliedSeq).Msg("stale auth event dropped")
		return
	}
	s.appliedSeq = seq
	s.status = domain.SessionReady
	if clear {
		s.identity = nil
	} else {
		s.identity = identity
	}
}

// Login delegates the credential check to the backend. It deliberately does
// not write the identity: the subsequent auth event does, keeping a single
// writer path. The reason string is the backend's rejection message.
func (s *SessionStore) Login(ctx context.Context, email, password string) (bool, string) {
	if email == "" || password == "" {
		return false, domain.ErrInvalidCredentials.Error()
	}

	if _, err := s.backend.SignIn(ctx, email, password); err != nil {
		s.log.Info().Str("email", email).Err(err).Msg("login rejected")
		return false, err.Error()
	}
	return true, ""
}

// Logout terminates the backend session, then clears the identity locally
// regardless of the remote outcome: a user who logged out must not stay
// stuck in because the backend call failed.
func (s *SessionStore) Logout(ctx context.Context) {
	if err := s.backend.SignOut(ctx); err != nil {
		s.log.Warn().Err(err).Msg("remote sign-out failed, clearing local session anyway")
	}

	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()
}

// Snapshot returns an immutable copy of the current session.
func (s *SessionStore) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Session{
		Identity: s.identity.Clone(),
		Status:   s.status,
	}
}

// Close detaches the store from backend auth events.
func (s *SessionStore) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *SessionStore) markReady() {
	s.mu.Lock()
	s.status = domain.SessionReady
	s.mu.Unlock()
}
