package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

// identityKey is where the resolved profile lives in the echo context.
const identityKey = "identity"

// TokenValidator resolves a raw bearer token to the account's live profile.
type TokenValidator interface {
	ValidateToken(ctx context.Context, raw string) (*domain.User, error)
}

// Auth resolves the Authorization header into an identity. A missing header
// is not an error: the request proceeds anonymously and the access gate
// decides whether the route requires authentication. A present but unusable
// token is rejected outright.
func Auth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := validator.ValidateToken(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(identityKey, user)
			c.Set("token", parts[1])

			return next(c)
		}
	}
}

// Identity returns the profile resolved by Auth, or nil for anonymous
// requests.
func Identity(c echo.Context) *domain.User {
	user, _ := c.Get(identityKey).(*domain.User)
	return user
}

// RawToken returns the bearer token the request authenticated with.
func RawToken(c echo.Context) string {
	token, _ := c.Get("token").(string)
	return token
}
