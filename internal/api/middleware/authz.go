package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

// Authorize gates a route on an access requirement. The decision comes from
// domain.EvaluateAccess over the identity the Auth middleware resolved; the
// browser-style redirect outcomes translate to their HTTP equivalents.
func Authorize(req domain.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := domain.Session{
				Identity: Identity(c),
				Status:   domain.SessionReady,
			}

			switch domain.EvaluateAccess(session, req) {
			case domain.DecisionAllow:
				return next(c)
			case domain.DecisionRedirectLogin:
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			case domain.DecisionRedirectDefault:
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			default:
				// Pending cannot happen with a ready session; refuse rather
				// than guess.
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session not ready")
			}
		}
	}
}
