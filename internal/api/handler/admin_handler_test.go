package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

type stubAdminService struct {
	createFn func(ctx context.Context, caller ports.Caller, input ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, caller ports.Caller, id string, fields ports.ProfileUpdate) error
	deleteFn func(ctx context.Context, caller ports.Caller, id string) error
	blockFn  func(ctx context.Context, caller ports.Caller, id string, blocked bool) error
	assignFn func(ctx context.Context, caller ports.Caller, id, planID string) error
	listFn   func(ctx context.Context, caller ports.Caller, search string) ([]domain.User, error)
}

func (s *stubAdminService) CreateUser(ctx context.Context, caller ports.Caller, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, caller, input)
}

func (s *stubAdminService) UpdateUser(ctx context.Context, caller ports.Caller, id string, fields ports.ProfileUpdate) error {
	return s.updateFn(ctx, caller, id, fields)
}

func (s *stubAdminService) DeleteUser(ctx context.Context, caller ports.Caller, id string) error {
	return s.deleteFn(ctx, caller, id)
}

func (s *stubAdminService) BlockUser(ctx context.Context, caller ports.Caller, id string, blocked bool) error {
	return s.blockFn(ctx, caller, id, blocked)
}

func (s *stubAdminService) AssignPlan(ctx context.Context, caller ports.Caller, id, planID string) error {
	return s.assignFn(ctx, caller, id, planID)
}

func (s *stubAdminService) ListUsers(ctx context.Context, caller ports.Caller, search string) ([]domain.User, error) {
	return s.listFn(ctx, caller, search)
}

func setAdminIdentity(c echo.Context) {
	c.Set("identity", &domain.User{ID: "admin1", Role: domain.RoleAdmin})
}

func TestAdminHandler_Create_Success(t *testing.T) {
	stub := &stubAdminService{
		createFn: func(ctx context.Context, caller ports.Caller, input ports.CreateUserInput) (*domain.User, error) {
			if caller.ID != "admin1" || caller.Role != domain.RoleAdmin {
				t.Fatalf("unexpected caller: %+v", caller)
			}
			if input.Email != "bob@example.com" || input.Role != domain.RoleMember {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u2", Name: input.Name, Email: input.Email, Role: input.Role}, nil
		},
	}
	handler := NewAdminHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/admin/users",
		`{"name":"Bob","email":"bob@example.com","password":"longenough","role":"member"}`)
	setAdminIdentity(c)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u2" || resp["email"] != "bob@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAdminHandler_Create_ShortPassword(t *testing.T) {
	stub := &stubAdminService{
		createFn: func(ctx context.Context, caller ports.Caller, input ports.CreateUserInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAdminHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/admin/users",
		`{"name":"Bob","email":"bob@example.com","password":"short"}`)
	setAdminIdentity(c)

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAdminHandler_Create_DuplicateEmailSurfaces(t *testing.T) {
	stub := &stubAdminService{
		createFn: func(ctx context.Context, caller ports.Caller, input ports.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewAdminHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/admin/users",
		`{"name":"Bob","email":"bob@example.com","password":"longenough"}`)
	setAdminIdentity(c)

	if err := handler.Create(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAdminHandler_Create_MissingIdentity(t *testing.T) {
	stub := &stubAdminService{
		createFn: func(ctx context.Context, caller ports.Caller, input ports.CreateUserInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAdminHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/admin/users",
		`{"name":"Bob","email":"bob@example.com","password":"longenough"}`)

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAdminHandler_Block_PassesFlag(t *testing.T) {
	var gotID string
	var gotBlocked bool
	stub := &stubAdminService{
		blockFn: func(ctx context.Context, caller ports.Caller, id string, blocked bool) error {
			gotID, gotBlocked = id, blocked
			return nil
		},
	}
	handler := NewAdminHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/admin/users/u7/block", `{"blocked":true}`)
	c.SetParamNames("id")
	c.SetParamValues("u7")
	setAdminIdentity(c)

	if err := handler.Block(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotID != "u7" || !gotBlocked {
		t.Fatalf("unexpected call: id=%s blocked=%v", gotID, gotBlocked)
	}
}

func TestAdminHandler_AssignPlan_EmptyClearsAssignment(t *testing.T) {
	var gotPlan string
	stub := &stubAdminService{
		assignFn: func(ctx context.Context, caller ports.Caller, id, planID string) error {
			gotPlan = planID
			return nil
		},
	}
	handler := NewAdminHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/admin/users/u7/plan", `{"plan_id":""}`)
	c.SetParamNames("id")
	c.SetParamValues("u7")
	setAdminIdentity(c)

	if err := handler.AssignPlan(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotPlan != "" {
		t.Fatalf("expected empty plan id, got %q", gotPlan)
	}
}

func TestAdminHandler_List_ForwardsSearch(t *testing.T) {
	stub := &stubAdminService{
		listFn: func(ctx context.Context, caller ports.Caller, search string) ([]domain.User, error) {
			if search != "ali" {
				t.Fatalf("expected search forwarded, got %q", search)
			}
			return []domain.User{{ID: "u1", Name: "Alice"}}, nil
		},
	}
	handler := NewAdminHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/admin/users?search=ali", "")
	setAdminIdentity(c)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, ok := resp["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("expected one user, got %+v", resp)
	}
}

func TestAdminHandler_Delete_PermissionDeniedSurfaces(t *testing.T) {
	stub := &stubAdminService{
		deleteFn: func(ctx context.Context, caller ports.Caller, id string) error {
			return domain.ErrPermissionDenied
		},
	}
	handler := NewAdminHandler(stub)

	c, _ := newTestContext(t, http.MethodDelete, "/admin/users/u7", "")
	c.SetParamNames("id")
	c.SetParamValues("u7")
	c.Set("identity", &domain.User{ID: "m1", Role: domain.RoleMember})

	if err := handler.Delete(c); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}
