package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nutritionnest/coaching-api/internal/api/middleware"
	"github.com/nutritionnest/coaching-api/internal/core/domain"
	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

// ctxIdentity extracts the profile the Auth middleware resolved. Routes that
// call this sit behind an access requirement, so a missing identity means the
// middleware chain is miswired; fail with 401 rather than panic.
func ctxIdentity(c echo.Context) (*domain.User, error) {
	user := middleware.Identity(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}

// ctxCaller builds the service-layer caller from the request identity.
func ctxCaller(c echo.Context) (ports.Caller, error) {
	user, err := ctxIdentity(c)
	if err != nil {
		return ports.Caller{}, err
	}
	return ports.Caller{ID: user.ID, Role: user.Role}, nil
}
