package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nutritionnest/coaching-api/internal/api/middleware"
	"github.com/nutritionnest/coaching-api/internal/core/domain"
	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

// AuthProvider is the slice of the identity backend the auth routes need.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*ports.SessionToken, error)
	RevokeToken(ctx context.Context, raw string) error
	GetProfile(ctx context.Context, id string) (*domain.User, error)
}

type AuthHandler struct {
	auth AuthProvider
}

func NewAuthHandler(auth AuthProvider) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	user, err := h.auth.GetProfile(c.Request().Context(), token.AccountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     token.AccessToken,
		ExpiresAt: token.ExpiresAt,
		User:      toUserResponse(user),
	})
}

// Logout revokes the session behind the caller's bearer token.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw := middleware.RawToken(c)
	if raw == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	if err := h.auth.RevokeToken(c.Request().Context(), raw); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the profile bound to the caller's session.
func (h *AuthHandler) Session(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Blocked:   u.Blocked,
		PlanID:    u.PlanID,
		CreatedAt: u.CreatedAt,
	}
}
