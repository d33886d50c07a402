package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/dberrors"
)

var visitorColumns = []string{
	"v.visit_id", "v.visitor_name", "v.visitor_phone", "v.student_id", "s.roll_no",
	"v.purpose", "v.checked_in_at", "v.checked_out_at", "v.guard_email",
}

// VisitorRepository handles visitor_logs
type VisitorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewVisitorRepository creates a new VisitorRepository
func NewVisitorRepository(db *pgxpool.Pool) *VisitorRepository {
	return &VisitorRepository{db: db, sb: statementBuilder()}
}

func scanVisit(row pgx.Row) (*models.VisitorLog, error) {
	v := &models.VisitorLog{}
	err := row.Scan(&v.ID, &v.VisitorName, &v.VisitorPhone, &v.StudentID, &v.StudentRollNo,
		&v.Purpose, &v.CheckedInAt, &v.CheckedOutAt, &v.GuardEmail)
	return v, err
}

func (r *VisitorRepository) selectVisits() squirrel.SelectBuilder {
	return r.sb.Select(visitorColumns...).
		From("visitor_logs v").
		LeftJoin("students s ON s.student_id = v.student_id")
}

// Create records a check-in
func (r *VisitorRepository) Create(ctx context.Context, v *models.VisitorLog) error {
	sql, args, err := r.sb.Insert("visitor_logs").
		Columns("visitor_name", "visitor_phone", "student_id", "purpose", "checked_in_at", "guard_email").
		Values(v.VisitorName, v.VisitorPhone, v.StudentID, v.Purpose, v.CheckedInAt, v.GuardEmail).
		Suffix("RETURNING visit_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create visit query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&v.ID); err != nil {
		return fmt.Errorf("error creating visit: %w", err)
	}
	return nil
}

// CheckOut stamps checked_out_at once; a second call is a conflict
func (r *VisitorRepository) CheckOut(ctx context.Context, id int64, at time.Time) (*models.VisitorLog, error) {
	tag, err := r.db.Exec(ctx, `UPDATE visitor_logs SET checked_out_at = $1 WHERE visit_id = $2 AND checked_out_at IS NULL`, at, id)
	if err != nil {
		return nil, fmt.Errorf("error checking out visit: %w", err)
	}

	sql, args, err := r.selectVisits().Where(squirrel.Eq{"v.visit_id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get visit query: %w", err)
	}
	visit, err := scanVisit(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrVisitNotFound
		}
		return nil, fmt.Errorf("error getting visit: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrAlreadyCheckedOut
	}
	return visit, nil
}

// ListActive returns visitors still inside, most recent first
func (r *VisitorRepository) ListActive(ctx context.Context) ([]*models.VisitorLog, error) {
	return r.list(ctx, r.selectVisits().
		Where(squirrel.Eq{"v.checked_out_at": nil}).
		OrderBy("v.checked_in_at DESC", "v.visit_id DESC"))
}

// List returns a page of the visitor log plus the total count
func (r *VisitorRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.VisitorLog, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM visitor_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting visits: %w", err)
	}

	visits, err := r.list(ctx, r.selectVisits().
		OrderBy("v.checked_in_at DESC", "v.visit_id DESC").
		Offset(offset).
		Limit(uint64(limit)))
	if err != nil {
		return nil, 0, err
	}
	return visits, total, nil
}

func (r *VisitorRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.VisitorLog, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build visits query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying visits: %w", err)
	}
	defer rows.Close()

	visits := []*models.VisitorLog{}
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning visit row: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
