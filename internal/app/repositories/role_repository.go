package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/dberrors"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

// RoleRepository handles role_assignments
type RoleRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{db: db, sb: statementBuilder()}
}

// GetRole returns the role assigned to email, or apperrors.ErrRoleNotFound
func (r *RoleRepository) GetRole(ctx context.Context, email string) (models.Role, error) {
	sql, args, err := r.sb.Select("role").
		From("role_assignments").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build get role query: %w", err)
	}

	var role string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&role); err != nil {
		if dberrors.IsNoRows(err) {
			return "", apperrors.ErrRoleNotFound
		}
		return "", fmt.Errorf("error getting role: %w", err)
	}
	return models.Role(role), nil
}

// Upsert assigns a role, replacing any previous assignment for the email
func (r *RoleRepository) Upsert(ctx context.Context, assignment *models.RoleAssignment) error {
	sql, args, err := r.sb.Insert("role_assignments").
		Columns("email", "role").
		Values(assignment.Email, string(assignment.Role)).
		Suffix("ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, assigned_at = NOW() RETURNING assigned_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert role query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&assignment.AssignedAt); err != nil {
		logger.Error().Err(err).Str("email", assignment.Email).Msg("Error upserting role assignment")
		return fmt.Errorf("error upserting role: %w", err)
	}
	return nil
}

// List returns all role assignments ordered by email
func (r *RoleRepository) List(ctx context.Context) ([]*models.RoleAssignment, error) {
	sql, args, err := r.sb.Select("email", "role", "assigned_at").
		From("role_assignments").
		OrderBy("email ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list roles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying roles: %w", err)
	}
	defer rows.Close()

	assignments := []*models.RoleAssignment{}
	for rows.Next() {
		a := &models.RoleAssignment{}
		var role string
		if err := rows.Scan(&a.Email, &role, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("error scanning role row: %w", err)
		}
		a.Role = models.Role(role)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
