package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nutritionnest/coaching-api/internal/metrics"
	"github.com/nutritionnest/coaching-api/internal/core/domain"
	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

// AdminService implements the privileged user mutations. Authorization is
// enforced here, at the action boundary, in addition to the route-level gate:
// a role can be revoked mid-session, and actions can be invoked without going
// through a route at all.
type AdminService struct {
	backend ports.IdentityBackend
	log     zerolog.Logger
}

func NewAdminService(backend ports.IdentityBackend, log zerolog.Logger) *AdminService {
	return &AdminService{backend: backend, log: log}
}

// requireAdmin is the independent role re-check every action performs before
// issuing any backend call.
func (s *AdminService) requireAdmin(caller ports.Caller, action string) error {
	if caller.Role != domain.RoleAdmin {
		s.log.Warn().
			Str("caller_id", caller.ID).
			Str("role", caller.Role).
			Str("action", action).
			Msg("privileged action denied")
		metrics.AdminActionsTotal.WithLabelValues(action, "denied").Inc()
		return domain.ErrPermissionDenied
	}
	return nil
}

func (s *AdminService) report(action string, err error) error {
	if err != nil {
		metrics.AdminActionsTotal.WithLabelValues(action, "error").Inc()
		return err
	}
	metrics.AdminActionsTotal.WithLabelValues(action, "ok").Inc()
	return nil
}

// CreateUser provisions a new managed account. Duplicate email is reported by
// the backend (ErrEmailTaken), never pre-checked against a local cache, so
// concurrent creations cannot race past the check. The acting admin's own
// session is untouched.
func (s *AdminService) CreateUser(ctx context.Context, caller ports.Caller, input ports.CreateUserInput) (*domain.User, error) {
	const action = "create_user"
	if err := s.requireAdmin(caller, action); err != nil {
		return nil, err
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, s.report(action, domain.ErrValidation)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !domain.ValidRole(role) {
		return nil, s.report(action, domain.ErrValidation)
	}

	id, err := s.backend.CreateAccount(ctx, ports.CreateAccountInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		s.log.Error().Err(err).Str("email", input.Email).Msg("account creation failed")
		return nil, s.report(action, err)
	}

	// Role and plan are profile fields set after provisioning, mirroring the
	// backend's two-step account/profile split.
	if role != domain.RoleMember || input.PlanID != "" {
		fields := ports.ProfileUpdate{Role: &role}
		if input.PlanID != "" {
			fields.PlanID = &input.PlanID
		}
		if err := s.backend.UpdateProfile(ctx, id, fields); err != nil {
			s.log.Error().Err(err).Str("user_id", id).Msg("profile update after creation failed")
			// A failed action must not leave a half-provisioned member
			// behind, or a retry of the same request reports ErrEmailTaken.
			if delErr := s.backend.DeleteAccount(ctx, id); delErr != nil {
				s.log.Error().Err(delErr).Str("user_id", id).Msg("rollback of partially created user failed")
			}
			return nil, s.report(action, err)
		}
	}

	user, err := s.backend.GetProfile(ctx, id)
	if err != nil {
		return nil, s.report(action, err)
	}

	s.log.Info().Str("user_id", id).Str("role", role).Str("created_by", caller.ID).Msg("user created")
	return user, s.report(action, nil)
}

// UpdateUser applies a partial profile mutation.
func (s *AdminService) UpdateUser(ctx context.Context, caller ports.Caller, id string, fields ports.ProfileUpdate) error {
	const action = "update_user"
	if err := s.requireAdmin(caller, action); err != nil {
		return err
	}
	if fields.Role != nil && !domain.ValidRole(*fields.Role) {
		return s.report(action, domain.ErrValidation)
	}

	if err := s.backend.UpdateProfile(ctx, id, fields); err != nil {
		s.log.Error().Err(err).Str("user_id", id).Msg("user update failed")
		return s.report(action, err)
	}
	s.log.Info().Str("user_id", id).Str("updated_by", caller.ID).Msg("user updated")
	return s.report(action, nil)
}

// DeleteUser removes an account. Deleting the acting admin's own row does not
// log them out here; session teardown is the identity backend's concern.
func (s *AdminService) DeleteUser(ctx context.Context, caller ports.Caller, id string) error {
	const action = "delete_user"
	if err := s.requireAdmin(caller, action); err != nil {
		return err
	}

	if err := s.backend.DeleteAccount(ctx, id); err != nil {
		s.log.Error().Err(err).Str("user_id", id).Msg("user deletion failed")
		return s.report(action, err)
	}
	s.log.Info().Str("user_id", id).Str("deleted_by", caller.ID).Msg("user deleted")
	return s.report(action, nil)
}

// BlockUser sets the blocked flag. Blocking prevents new sign-ins; it does
// not revoke route access for sessions already live.
func (s *AdminService) BlockUser(ctx context.Context, caller ports.Caller, id string, blocked bool) error {
	const action = "block_user"
	if err := s.requireAdmin(caller, action); err != nil {
		return err
	}

	if err := s.backend.UpdateProfile(ctx, id, ports.ProfileUpdate{Blocked: &blocked}); err != nil {
		s.log.Error().Err(err).Str("user_id", id).Bool("blocked", blocked).Msg("block update failed")
		return s.report(action, err)
	}
	s.log.Info().Str("user_id", id).Bool("blocked", blocked).Str("by", caller.ID).Msg("block flag updated")
	return s.report(action, nil)
}

// AssignPlan links a nutrition plan to a user. An empty planID clears the
// assignment.
func (s *AdminService) AssignPlan(ctx context.Context, caller ports.Caller, id, planID string) error {
	const action = "assign_plan"
	if err := s.requireAdmin(caller, action); err != nil {
		return err
	}

	if err := s.backend.UpdateProfile(ctx, id, ports.ProfileUpdate{PlanID: &planID}); err != nil {
		s.log.Error().Err(err).Str("user_id", id).Str("plan_id", planID).Msg("plan assignment failed")
		return s.report(action, err)
	}
	s.log.Info().Str("user_id", id).Str("plan_id", planID).Str("by", caller.ID).Msg("plan assigned")
	return s.report(action, nil)
}

// ListUsers returns all managed profiles, optionally filtered by a name or
// email substring.
func (s *AdminService) ListUsers(ctx context.Context, caller ports.Caller, search string) ([]domain.User, error) {
	if err := s.requireAdmin(caller, "list_users"); err != nil {
		return nil, err
	}
	return s.backend.ListProfiles(ctx, search)
}
