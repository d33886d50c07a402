package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/dberrors"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

var complaintColumns = []string{
	"c.complaint_id", "c.student_id", "s.roll_no", "c.type", "c.description", "c.photo_url",
	"c.status", "c.created_at", "c.closed_at", "c.resolution_info",
}

// ComplaintRepository handles complaint database operations
type ComplaintRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewComplaintRepository creates a new ComplaintRepository
func NewComplaintRepository(db *pgxpool.Pool) *ComplaintRepository {
	return &ComplaintRepository{db: db, sb: statementBuilder()}
}

func scanComplaint(row pgx.Row) (*models.Complaint, error) {
	c := &models.Complaint{}
	var complaintType, status string
	err := row.Scan(&c.ID, &c.StudentID, &c.RollNo, &complaintType, &c.Description, &c.PhotoURL,
		&status, &c.CreatedAt, &c.ClosedAt, &c.ResolutionInfo)
	c.Type = models.ComplaintType(complaintType)
	c.Status = models.ComplaintStatus(status)
	return c, err
}

func (r *ComplaintRepository) selectComplaints() squirrel.SelectBuilder {
	return r.sb.Select(complaintColumns...).
		From("complaints c").
		Join("students s ON s.student_id = c.student_id")
}

func (r *ComplaintRepository) query(ctx context.Context, builder squirrel.Sqlizer) ([]*models.Complaint, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build complaints query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying complaints: %w", err)
	}
	defer rows.Close()

	complaints := []*models.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning complaint row: %w", err)
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

// Create inserts a complaint and fills in its ID
func (r *ComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	sql, args, err := r.sb.Insert("complaints").
		Columns("student_id", "type", "description", "photo_url", "status", "created_at").
		Values(complaint.StudentID, string(complaint.Type), complaint.Description, complaint.PhotoURL,
			string(complaint.Status), complaint.CreatedAt).
		Suffix("RETURNING complaint_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create complaint query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&complaint.ID); err != nil {
		logger.Error().Err(err).Int64("studentID", complaint.StudentID).Msg("Error executing create complaint query")
		return fmt.Errorf("error creating complaint: %w", err)
	}
	return nil
}

// GetByID retrieves one complaint
func (r *ComplaintRepository) GetByID(ctx context.Context, id int64) (*models.Complaint, error) {
	sql, args, err := r.selectComplaints().Where(squirrel.Eq{"c.complaint_id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get complaint query: %w", err)
	}

	c, err := scanComplaint(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("error getting complaint: %w", err)
	}
	return c, nil
}

// ListByStudent returns a student's complaints, newest first
func (r *ComplaintRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Complaint, error) {
	return r.query(ctx, r.selectComplaints().
		Where(squirrel.Eq{"c.student_id": studentID}).
		OrderBy("c.created_at DESC", "c.complaint_id ASC"))
}

// List returns a filtered page of complaints, newest first, plus the total count
func (r *ComplaintRepository) List(ctx context.Context, filter models.ComplaintFilter) ([]*models.Complaint, int64, error) {
	where := squirrel.And{}
	if filter.StudentID != nil {
		where = append(where, squirrel.Eq{"c.student_id": *filter.StudentID})
	}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"c.status": string(*filter.Status)})
	}
	if filter.Type != nil {
		where = append(where, squirrel.Eq{"c.type": string(*filter.Type)})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("complaints c").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count complaints query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting complaints: %w", err)
	}

	builder := r.selectComplaints().Where(where).OrderBy("c.created_at DESC", "c.complaint_id ASC")
	if filter.Limit > 0 {
		builder = builder.Offset(filter.Offset).Limit(uint64(filter.Limit))
	}

	complaints, err := r.query(ctx, builder)
	if err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

// UpdateStatus writes the complaint's new status only if the stored status
// is still from. A lost race is reported as apperrors.ErrComplaintStatusChanged.
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, complaint *models.Complaint, from models.ComplaintStatus) error {
	sql, args, err := r.sb.Update("complaints").
		Set("status", string(complaint.Status)).
		Set("closed_at", complaint.ClosedAt).
		Set("resolution_info", complaint.ResolutionInfo).
		Where(squirrel.Eq{"complaint_id": complaint.ID, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update complaint status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("complaintID", complaint.ID).Msg("Error updating complaint status")
		return fmt.Errorf("error updating complaint status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM complaints WHERE complaint_id = $1)`, complaint.ID).Scan(&exists); err != nil {
		return fmt.Errorf("error checking complaint: %w", err)
	}
	if !exists {
		return apperrors.ErrComplaintNotFound
	}
	return apperrors.ErrComplaintStatusChanged
}
