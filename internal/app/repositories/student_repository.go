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

var studentColumns = []string{
	"student_id", "roll_no", "email", "full_name", "department", "batch",
	"room_number", "hostel_block", "fees_paid", "emergency_contact", "created_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db, sb: statementBuilder()}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.RollNo, &s.Email, &s.FullName, &s.Department, &s.Batch,
		&s.RoomNumber, &s.HostelBlock, &s.FeesPaid, &s.EmergencyContact, &s.CreatedAt)
	return s, err
}

// mapStudentWriteError turns constraint violations into domain errors
func mapStudentWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintStudentRoomNumber):
		return apperrors.ErrRoomOccupied
	case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintStudentRollNo),
		dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintStudentEmail):
		return apperrors.ErrStudentAlreadyExists
	}
	return nil
}

// Create inserts a student and fills in its ID and created_at
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("roll_no", "email", "full_name", "department", "batch",
			"room_number", "hostel_block", "fees_paid", "emergency_contact").
		Values(student.RollNo, student.Email, student.FullName, student.Department, student.Batch,
			student.RoomNumber, student.HostelBlock, student.FeesPaid, student.EmergencyContact).
		Suffix("RETURNING student_id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt); err != nil {
		if mapped := mapStudentWriteError(err); mapped != nil {
			logger.Warn().Str("rollNo", student.RollNo).Err(err).Msg("Student create rejected by constraint")
			return mapped
		}
		logger.Error().Err(err).Str("rollNo", student.RollNo).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// GetByRollNo retrieves a student by roll number
func (r *StudentRepository) GetByRollNo(ctx context.Context, rollNo string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"roll_no": rollNo}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return student, nil
}

// Update writes the editable profile fields of a student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("full_name", student.FullName).
		Set("department", student.Department).
		Set("batch", student.Batch).
		Set("hostel_block", student.HostelBlock).
		Set("fees_paid", student.FeesPaid).
		Set("emergency_contact", student.EmergencyContact).
		Where(squirrel.Eq{"student_id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// List returns a page of students ordered by roll number, plus the total count
func (r *StudentRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.Student, int64, error) {
	var total int64
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("students").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("roll_no ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

// IsRoomOccupied reports whether any student currently holds room
func (r *StudentRepository) IsRoomOccupied(ctx context.Context, room string) (bool, error) {
	var occupied bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE room_number = $1)`, room).Scan(&occupied)
	if err != nil {
		return false, fmt.Errorf("error checking room occupancy: %w", err)
	}
	return occupied, nil
}

// AssignRoom sets or clears (room == nil) a student's room. The unique
// room constraint reports a taken room as apperrors.ErrRoomOccupied.
func (r *StudentRepository) AssignRoom(ctx context.Context, studentID int64, room *string) error {
	sql, args, err := r.sb.Update("students").
		Set("room_number", room).
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build assign room query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := mapStudentWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("error assigning room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
