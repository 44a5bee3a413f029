package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

type stubAuthProvider struct {
	signInFn  func(ctx context.Context, email, password string) (*ports.SessionToken, error)
	revokeFn  func(ctx context.Context, raw string) error
	profileFn func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubAuthProvider) SignIn(ctx context.Context, email, password string) (*ports.SessionToken, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubAuthProvider) RevokeToken(ctx context.Context, raw string) error {
	return s.revokeFn(ctx, raw)
}

func (s *stubAuthProvider) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	return s.profileFn(ctx, id)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC()
	stub := &stubAuthProvider{
		signInFn: func(ctx context.Context, email, password string) (*ports.SessionToken, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.SessionToken{AccessToken: "token123", AccountID: "u1", ExpiresAt: expires}, nil
		},
		profileFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "u1" {
				t.Fatalf("unexpected profile lookup: %s", id)
			}
			return &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "u1" || user["role"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthProvider{
		signInFn: func(ctx context.Context, email, password string) (*ports.SessionToken, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad"}`)
	err := handler.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_BlockedAccount(t *testing.T) {
	stub := &stubAuthProvider{
		signInFn: func(ctx context.Context, email, password string) (*ports.SessionToken, error) {
			return nil, domain.ErrAccountBlocked
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"blocked@example.com","password":"pw"}`)
	err := handler.Login(c)
	if !errors.Is(err, domain.ErrAccountBlocked) {
		t.Fatalf("expected ErrAccountBlocked, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthProvider{
		signInFn: func(ctx context.Context, email, password string) (*ports.SessionToken, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", "{")
	err := handler.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_MissingEmail(t *testing.T) {
	stub := &stubAuthProvider{
		signInFn: func(ctx context.Context, email, password string) (*ports.SessionToken, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"password":"secret"}`)
	err := handler.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Logout_RevokesCallerToken(t *testing.T) {
	var revoked string
	stub := &stubAuthProvider{
		revokeFn: func(ctx context.Context, raw string) error {
			revoked = raw
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", "")
	c.Set("token", "bearer-raw")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if revoked != "bearer-raw" {
		t.Fatalf("expected caller token revoked, got %q", revoked)
	}
}

func TestAuthHandler_Session_ReturnsIdentity(t *testing.T) {
	handler := NewAuthHandler(&stubAuthProvider{})

	c, rec := newTestContext(t, http.MethodGet, "/auth/session", "")
	c.Set("identity", &domain.User{ID: "u9", Name: "Nina", Role: domain.RoleMember})

	if err := handler.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u9" || resp["role"] != "member" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
