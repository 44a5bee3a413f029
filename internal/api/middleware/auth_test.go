package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

type stubValidator struct {
	user *domain.User
	err  error
	raw  string
}

func (s *stubValidator) ValidateToken(_ context.Context, raw string) (*domain.User, error) {
	s.raw = raw
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	stub := &stubValidator{user: &domain.User{ID: "u1", Role: domain.RoleAdmin}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(stub)
	handler := mw(func(c echo.Context) error {
		called = true
		user := Identity(c)
		if user == nil || user.ID != "u1" {
			t.Fatalf("identity not set: %+v", user)
		}
		if RawToken(c) != "token123" {
			t.Fatalf("raw token not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if stub.raw != "token123" {
		t.Fatalf("validator got %q", stub.raw)
	}
}

func TestAuthMiddleware_MissingHeaderIsAnonymous(t *testing.T) {
	e := echo.New()
	stub := &stubValidator{user: &domain.User{ID: "u1"}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(stub)
	handler := mw(func(c echo.Context) error {
		called = true
		if Identity(c) != nil {
			t.Fatalf("anonymous request must carry no identity")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	stub := &stubValidator{user: &domain.User{ID: "u1"}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(stub)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RevokedSession(t *testing.T) {
	e := echo.New()
	stub := &stubValidator{err: domain.ErrSessionExpired}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(stub)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	if err != domain.ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}
