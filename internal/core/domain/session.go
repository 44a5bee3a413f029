package domain

// SessionStatus tracks whether the initial session hydration has completed.
type SessionStatus string

const (
	// SessionInitializing holds only until the first hydration attempt
	// finishes, successfully or not.
	SessionInitializing SessionStatus = "initializing"
	// SessionReady is permanent once reached, even after a later logout.
	SessionReady SessionStatus = "ready"
)

// Session is a point-in-time view of the authentication state: the current
// identity (nil when logged out) plus the readiness flag.
type Session struct {
	Identity *User
	Status   SessionStatus
}

// Authenticated reports whether the session carries a live identity.
func (s Session) Authenticated() bool {
	return s.Identity != nil
}
