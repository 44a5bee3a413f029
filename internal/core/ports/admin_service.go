package ports

import (
	"context"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

// Caller identifies who is invoking a privileged operation. The role here is
// the live one resolved for this invocation, not a value cached at route
// evaluation time.
type Caller struct {
	ID   string
	Role string
}

// CreateUserInput carries everything needed to provision a managed user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	PlanID   string
}

// AdminService is the set of privileged mutations on managed users. Every
// operation re-verifies the caller's role before touching the identity
// backend; a route-level check alone can be stale or bypassed.
type AdminService interface {
	CreateUser(ctx context.Context, caller Caller, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, caller Caller, id string, fields ProfileUpdate) error
	DeleteUser(ctx context.Context, caller Caller, id string) error
	BlockUser(ctx context.Context, caller Caller, id string, blocked bool) error
	AssignPlan(ctx context.Context, caller Caller, id, planID string) error
	ListUsers(ctx context.Context, caller Caller, search string) ([]domain.User, error)
}
