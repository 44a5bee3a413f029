package ports

import (
	"context"
	"time"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

// MealInput is one meal slot in a plan payload.
type MealInput struct {
	Name  string
	Foods []string
}

// PlanInput carries the authorable fields of a nutrition plan.
type PlanInput struct {
	Title         string
	Description   string
	StartDate     time.Time
	EndDate       time.Time
	CalorieTarget int
	ProteinTarget int
	CarbsTarget   int
	FatTarget     int
	Meals         []MealInput
}

// PlanService manages nutrition plans. Writes are admin-only; reads are open
// to any authenticated user so members can view their assigned plan.
type PlanService interface {
	CreatePlan(ctx context.Context, caller Caller, input PlanInput) (*domain.Plan, error)
	UpdatePlan(ctx context.Context, caller Caller, id string, input PlanInput) error
	DeletePlan(ctx context.Context, caller Caller, id string) error
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
	ListPlans(ctx context.Context) ([]domain.Plan, error)
}

// PlanRepository is the persistence port for nutrition plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (*domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Plan, error)
	FindAll(ctx context.Context) ([]domain.Plan, error)
}
