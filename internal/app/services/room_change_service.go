package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// RoomChangeService runs the room change workflow
type RoomChangeService struct {
	requests RoomChangeStore
	students StudentStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRoomChangeService creates a new RoomChangeService
func NewRoomChangeService(requests RoomChangeStore, students StudentStore, logger zerolog.Logger) *RoomChangeService {
	return &RoomChangeService{
		requests: requests,
		students: students,
		logger:   logger,
		now:      time.Now,
	}
}

func parseRoom(room, field string) (string, error) {
	normalized := validation.NormalizeRoom(room)
	if normalized == "" {
		return "", apperrors.NewValidationError(field, "room number is required")
	}
	if !validation.IsValidRoom(normalized) {
		return "", apperrors.NewValidationError(field, "room number must look like A-101")
	}
	return normalized, nil
}

// CheckAvailability reports whether no student occupies room. The answer is
// advisory; Submit re-checks atomically.
func (s *RoomChangeService) CheckAvailability(ctx context.Context, room string) (bool, error) {
	normalized, err := parseRoom(room, "room")
	if err != nil {
		return false, err
	}

	occupied, err := s.students.IsRoomOccupied(ctx, normalized)
	if err != nil {
		return false, err
	}
	return !occupied, nil
}

// Submit files a pending request for input.PreferredRoom. A room taken in
// the meantime is reported as a conflict, not a validation error.
func (s *RoomChangeService) Submit(ctx context.Context, input SubmitRoomChangeInput) (*models.RoomChangeRequest, error) {
	preferred, err := parseRoom(input.PreferredRoom, "preferredRoom")
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reason", "reason is required")
	}

	student, err := lookupStudent(ctx, s.students, input.RollNo)
	if err != nil {
		return nil, err
	}

	current := student.CurrentRoom()
	if current == preferred {
		return nil, apperrors.NewValidationError("preferredRoom", "preferred room is your current room")
	}

	request := &models.RoomChangeRequest{
		StudentID:     student.ID,
		RollNo:        student.RollNo,
		FullName:      student.FullName,
		CurrentRoom:   current,
		PreferredRoom: preferred,
		Reason:        reason,
		Status:        models.RoomChangePending,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.requests.CreateIfRoomFree(ctx, request); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			s.logger.Info().Str("rollNo", student.RollNo).Str("room", preferred).Err(err).Msg("Room change submit lost to a conflict")
		}
		return nil, err
	}

	s.logger.Info().Int64("requestID", request.ID).Str("rollNo", student.RollNo).Str("room", preferred).Msg("Room change requested")
	return request, nil
}

// Approve moves the student into the preferred room
func (s *RoomChangeService) Approve(ctx context.Context, id int64) (*models.RoomChangeRequest, error) {
	request, err := s.requests.Approve(ctx, id, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("requestID", id).Str("rollNo", request.RollNo).Str("room", request.PreferredRoom).Msg("Room change approved")
	return request, nil
}

// Reject declines a pending request
func (s *RoomChangeService) Reject(ctx context.Context, id int64) (*models.RoomChangeRequest, error) {
	request, err := s.requests.Reject(ctx, id, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("requestID", id).Str("rollNo", request.RollNo).Msg("Room change rejected")
	return request, nil
}

// ListPending returns requests awaiting a decision
func (s *RoomChangeService) ListPending(ctx context.Context) ([]*models.RoomChangeRequest, error) {
	return s.requests.ListPending(ctx)
}

// ListFor returns a student's requests
func (s *RoomChangeService) ListFor(ctx context.Context, rollNo string) ([]*models.RoomChangeRequest, error) {
	student, err := lookupStudent(ctx, s.students, rollNo)
	if err != nil {
		return nil, err
	}
	return s.requests.ListByStudent(ctx, student.ID)
}
