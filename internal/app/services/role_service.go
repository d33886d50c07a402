package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// RoleService administers role assignments
type RoleService struct {
	roles  RoleStore
	domain string
	logger zerolog.Logger
}

// NewRoleService creates a new RoleService
func NewRoleService(roles RoleStore, institutionDomain string, logger zerolog.Logger) *RoleService {
	return &RoleService{
		roles:  roles,
		domain: validation.NormalizeDomainSuffix(institutionDomain),
		logger: logger,
	}
}

// Assign gives email the named role, replacing any earlier assignment
func (s *RoleService) Assign(ctx context.Context, email, role string) (*models.RoleAssignment, error) {
	email = validation.NormalizeEmail(email)
	if !validation.IsEmail(email) {
		return nil, apperrors.NewValidationError("email", "a valid email address is required")
	}
	if !validation.IsInstitutionalEmail(email, s.domain) {
		return nil, apperrors.NewValidationError("email", "roles can only be assigned to institutional addresses")
	}

	parsed, ok := models.ParseRole(role)
	if !ok {
		return nil, apperrors.NewValidationError("role", "role must be one of admin, guard, student")
	}

	assignment := &models.RoleAssignment{Email: email, Role: parsed}
	if err := s.roles.Upsert(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", email).Str("role", string(parsed)).Msg("Role assigned")
	return assignment, nil
}

// List returns every role assignment
func (s *RoleService) List(ctx context.Context) ([]*models.RoleAssignment, error) {
	return s.roles.List(ctx)
}

// EnsureAdmins assigns the admin role to each email that has no assignment yet
func (s *RoleService) EnsureAdmins(ctx context.Context, emails []string) (int, error) {
	created := 0
	for _, email := range emails {
		_, err := s.roles.GetRole(ctx, validation.NormalizeEmail(email))
		if err == nil {
			continue
		}
		if !apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return created, err
		}
		if _, err := s.Assign(ctx, email, string(models.RoleAdmin)); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
