package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

// PlanService manages nutrition plans. Writes carry the same action-boundary
// role check as the admin user mutations.
type PlanService struct {
	repo ports.PlanRepository
	log  zerolog.Logger
}

func NewPlanService(repo ports.PlanRepository, log zerolog.Logger) *PlanService {
	return &PlanService{repo: repo, log: log}
}

func (s *PlanService) CreatePlan(ctx context.Context, caller ports.Caller, input ports.PlanInput) (*domain.Plan, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, domain.ErrPermissionDenied
	}
	if input.Title == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now().UTC()
	plan := planFromInput(input)
	plan.CreatedAt = now
	plan.UpdatedAt = now

	created, err := s.repo.Create(ctx, plan)
	if err != nil {
		s.log.Error().Err(err).Str("title", input.Title).Msg("plan creation failed")
		return nil, err
	}
	s.log.Info().Str("plan_id", created.ID).Str("created_by", caller.ID).Msg("plan created")
	return created, nil
}

func (s *PlanService) UpdatePlan(ctx context.Context, caller ports.Caller, id string, input ports.PlanInput) error {
	if caller.Role != domain.RoleAdmin {
		return domain.ErrPermissionDenied
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	plan := planFromInput(input)
	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, plan); err != nil {
		s.log.Error().Err(err).Str("plan_id", id).Msg("plan update failed")
		return err
	}
	return nil
}

func (s *PlanService) DeletePlan(ctx context.Context, caller ports.Caller, id string) error {
	if caller.Role != domain.RoleAdmin {
		return domain.ErrPermissionDenied
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("plan_id", id).Msg("plan deletion failed")
		return err
	}
	s.log.Info().Str("plan_id", id).Str("deleted_by", caller.ID).Msg("plan deleted")
	return nil
}

func (s *PlanService) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PlanService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.repo.FindAll(ctx)
}

func planFromInput(input ports.PlanInput) *domain.Plan {
	meals := make([]domain.Meal, 0, len(input.Meals))
	for _, m := range input.Meals {
		meals = append(meals, domain.Meal{Name: m.Name, Foods: m.Foods})
	}
	return &domain.Plan{
		Title:         input.Title,
		Description:   input.Description,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		CalorieTarget: input.CalorieTarget,
		ProteinTarget: input.ProteinTarget,
		CarbsTarget:   input.CarbsTarget,
		FatTarget:     input.FatTarget,
		Meals:         meals,
	}
}
