package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/auth"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// Dashboard destinations
const (
	PathSignIn  = "/sign-in"
	PathAdmin   = "/admin"
	PathGuard   = "/guard"
	PathStudent = "/student"
)

// DefaultRole is what a session gets when no usable role assignment can be
// read, whether the email is unassigned or the store is unreachable.
const DefaultRole = models.RoleStudent

// DomainRejectedMessage is shown after a non-institutional sign-in
const DomainRejectedMessage = "Please sign in with your institutional email address"

// SignOutFunc terminates the current session
type SignOutFunc func(ctx context.Context) error

// Destination is where a session should be sent
type Destination struct {
	Path      string
	Role      models.Role
	Message   string
	SignedOut bool
}

// RoleResolver maps a session to its dashboard
type RoleResolver struct {
	roles  RoleLookup
	domain string
	logger zerolog.Logger
}

// NewRoleResolver creates a RoleResolver for the given institutional domain
func NewRoleResolver(roles RoleLookup, institutionDomain string, logger zerolog.Logger) *RoleResolver {
	return &RoleResolver{
		roles:  roles,
		domain: validation.NormalizeDomainSuffix(institutionDomain),
		logger: logger,
	}
}

// Allowed reports whether email belongs to the institution
func (r *RoleResolver) Allowed(email string) bool {
	return validation.IsInstitutionalEmail(email, r.domain)
}

// ResolveRole looks up the role for email. It never fails: a missing
// assignment, an unknown stored role and a store error all yield DefaultRole.
func (r *RoleResolver) ResolveRole(ctx context.Context, email string) models.Role {
	role, err := r.roles.GetRole(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			r.logger.Error().Err(err).Str("email", email).Msg("Role lookup failed, falling back to default role")
		}
		return DefaultRole
	}
	if !role.Valid() {
		r.logger.Warn().Str("email", email).Str("role", string(role)).Msg("Unknown role in store, falling back to default role")
		return DefaultRole
	}
	return role
}

// Resolve decides where session lands. The only side effect is signOut,
// invoked when the session email is outside the institutional domain.
func (r *RoleResolver) Resolve(ctx context.Context, session *auth.Session, signOut SignOutFunc) Destination {
	if !session.Authenticated() {
		return Destination{Path: PathSignIn}
	}

	email := session.Email()
	if !r.Allowed(email) {
		signedOut := true
		if signOut != nil {
			if err := signOut(ctx); err != nil {
				r.logger.Error().Err(err).Str("email", email).Msg("Failed to sign out non-institutional session")
				signedOut = false
			}
		}
		r.logger.Warn().Str("email", email).Msg("Rejected non-institutional session")
		return Destination{Path: PathSignIn, Message: DomainRejectedMessage, SignedOut: signedOut}
	}

	role := r.ResolveRole(ctx, email)
	return Destination{Path: PathFor(role), Role: role}
}

// PathFor returns the dashboard path of role
func PathFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return PathAdmin
	case models.RoleGuard:
		return PathGuard
	default:
		return PathStudent
	}
}
