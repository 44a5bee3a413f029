package domain

// Requirement declares what a route needs before it may render.
type Requirement struct {
	RequireAuth  bool
	RequireAdmin bool
}

// Decision is the outcome of evaluating a session against a requirement.
type Decision string

const (
	// DecisionPending means hydration has not finished; show a neutral
	// waiting state rather than content or a redirect.
	DecisionPending Decision = "pending"
	DecisionAllow   Decision = "allow"
	// DecisionRedirectLogin means no identity is present for a route that
	// needs one.
	DecisionRedirectLogin Decision = "redirect_login"
	// DecisionRedirectDefault means the caller is authenticated but lacks the
	// admin role; send them to their normal landing page, not to login.
	DecisionRedirectDefault Decision = "redirect_default"
)

// EvaluateAccess decides whether a route may render for the given session.
// It is a pure function and must be re-evaluated on every navigation: the
// identity can change (logout, role revocation) while a view stays mounted.
//
// A blocked identity is not denied here. Blocking stops new sign-ins at the
// identity backend and gates privileged mutations at the action layer, but
// does not revoke route access for an already-live session.
func EvaluateAccess(s Session, req Requirement) Decision {
	if s.Status == SessionInitializing {
		return DecisionPending
	}
	if req.RequireAuth && s.Identity == nil {
		return DecisionRedirectLogin
	}
	if req.RequireAdmin && !s.Identity.IsAdmin() {
		return DecisionRedirectDefault
	}
	return DecisionAllow
}
