package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/db"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/dberrors"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

var roomChangeColumns = []string{
	"request_id", "student_id", "roll_no", "full_name", "current_room", "preferred_room",
	"reason", "status", "created_at", "decided_at",
}

// RoomChangeRepository handles room_change_requests. Every write that depends
// on a room being free runs under that room's advisory lock.
type RoomChangeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRoomChangeRepository creates a new RoomChangeRepository
func NewRoomChangeRepository(db *pgxpool.Pool) *RoomChangeRepository {
	return &RoomChangeRepository{db: db, sb: statementBuilder()}
}

func roomLockKey(room string) string {
	return "room:" + room
}

func scanRoomChange(row pgx.Row) (*models.RoomChangeRequest, error) {
	req := &models.RoomChangeRequest{}
	var status string
	err := row.Scan(&req.ID, &req.StudentID, &req.RollNo, &req.FullName, &req.CurrentRoom,
		&req.PreferredRoom, &req.Reason, &status, &req.CreatedAt, &req.DecidedAt)
	req.Status = models.RoomChangeStatus(status)
	return req, err
}

// CreateIfRoomFree inserts a pending request for request.PreferredRoom unless
// the room is occupied or already has a pending request.
func (r *RoomChangeRepository) CreateIfRoomFree(ctx context.Context, request *models.RoomChangeRequest) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := db.LockKey(ctx, tx, roomLockKey(request.PreferredRoom)); err != nil {
			return err
		}

		var occupied, requested bool
		err := tx.QueryRow(ctx, `
			SELECT
				EXISTS(SELECT 1 FROM students WHERE room_number = $1),
				EXISTS(SELECT 1 FROM room_change_requests WHERE preferred_room = $1 AND status = 'pending')`,
			request.PreferredRoom).Scan(&occupied, &requested)
		if err != nil {
			return fmt.Errorf("error checking room availability: %w", err)
		}
		if occupied {
			return apperrors.ErrRoomOccupied
		}
		if requested {
			return apperrors.ErrRoomAlreadyRequested
		}

		sql, args, err := r.sb.Insert("room_change_requests").
			Columns("student_id", "roll_no", "full_name", "current_room", "preferred_room", "reason", "status", "created_at").
			Values(request.StudentID, request.RollNo, request.FullName, request.CurrentRoom,
				request.PreferredRoom, request.Reason, string(models.RoomChangePending), request.CreatedAt).
			Suffix("RETURNING request_id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create room change query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&request.ID); err != nil {
			switch {
			case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintPendingPerStudent):
				return apperrors.ErrPendingRequestExists
			case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintPendingPerRoom):
				return apperrors.ErrRoomAlreadyRequested
			}
			logger.Error().Err(err).Str("rollNo", request.RollNo).Msg("Error executing create room change query")
			return fmt.Errorf("error creating room change request: %w", err)
		}
		request.Status = models.RoomChangePending
		return nil
	})
}

// GetByID retrieves one request
func (r *RoomChangeRepository) GetByID(ctx context.Context, id int64) (*models.RoomChangeRequest, error) {
	sql, args, err := r.sb.Select(roomChangeColumns...).
		From("room_change_requests").
		Where(squirrel.Eq{"request_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get room change query: %w", err)
	}

	req, err := scanRoomChange(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrRoomChangeRequestNotFound
		}
		return nil, fmt.Errorf("error getting room change request: %w", err)
	}
	return req, nil
}

// ListPending returns pending requests, oldest first
func (r *RoomChangeRepository) ListPending(ctx context.Context) ([]*models.RoomChangeRequest, error) {
	return r.list(ctx, r.sb.Select(roomChangeColumns...).
		From("room_change_requests").
		Where(squirrel.Eq{"status": string(models.RoomChangePending)}).
		OrderBy("created_at ASC", "request_id ASC"))
}

// ListByStudent returns a student's requests, newest first
func (r *RoomChangeRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.RoomChangeRequest, error) {
	return r.list(ctx, r.sb.Select(roomChangeColumns...).
		From("room_change_requests").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at DESC", "request_id DESC"))
}

func (r *RoomChangeRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.RoomChangeRequest, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build room change list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying room change requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.RoomChangeRequest{}
	for rows.Next() {
		req, err := scanRoomChange(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning room change row: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// lockPending loads a request FOR UPDATE and insists it is still pending
func (r *RoomChangeRepository) lockPending(ctx context.Context, tx pgx.Tx, id int64) (*models.RoomChangeRequest, error) {
	sql, args, err := r.sb.Select(roomChangeColumns...).
		From("room_change_requests").
		Where(squirrel.Eq{"request_id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock room change query: %w", err)
	}

	req, err := scanRoomChange(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrRoomChangeRequestNotFound
		}
		return nil, fmt.Errorf("error locking room change request: %w", err)
	}
	if req.Status != models.RoomChangePending {
		return nil, apperrors.ErrRequestNotPending
	}
	return req, nil
}

func (r *RoomChangeRepository) decide(ctx context.Context, tx pgx.Tx, req *models.RoomChangeRequest, status models.RoomChangeStatus, at time.Time) error {
	_, err := tx.Exec(ctx, `UPDATE room_change_requests SET status = $1, decided_at = $2 WHERE request_id = $3`,
		string(status), at, req.ID)
	if err != nil {
		return fmt.Errorf("error updating room change request: %w", err)
	}
	req.Status = status
	req.DecidedAt = &at
	return nil
}

// Approve moves the student into the preferred room and marks the request
// approved, in one transaction.
func (r *RoomChangeRepository) Approve(ctx context.Context, id int64, at time.Time) (*models.RoomChangeRequest, error) {
	var approved *models.RoomChangeRequest
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		req, err := r.lockPending(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := db.LockKey(ctx, tx, roomLockKey(req.PreferredRoom)); err != nil {
			return err
		}

		var occupied bool
		err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE room_number = $1 AND student_id <> $2)`,
			req.PreferredRoom, req.StudentID).Scan(&occupied)
		if err != nil {
			return fmt.Errorf("error checking room occupancy: %w", err)
		}
		if occupied {
			return apperrors.ErrRoomOccupied
		}

		tag, err := tx.Exec(ctx, `UPDATE students SET room_number = $1 WHERE student_id = $2`, req.PreferredRoom, req.StudentID)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintStudentRoomNumber) {
				return apperrors.ErrRoomOccupied
			}
			return fmt.Errorf("error moving student: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}

		if err := r.decide(ctx, tx, req, models.RoomChangeApproved, at); err != nil {
			return err
		}
		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// Reject marks a pending request rejected
func (r *RoomChangeRepository) Reject(ctx context.Context, id int64, at time.Time) (*models.RoomChangeRequest, error) {
	var rejected *models.RoomChangeRequest
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		req, err := r.lockPending(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := r.decide(ctx, tx, req, models.RoomChangeRejected, at); err != nil {
			return err
		}
		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}
