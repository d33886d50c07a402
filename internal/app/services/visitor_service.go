package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/helpers"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// VisitorService keeps the guard-desk visitor log
type VisitorService struct {
	visits   VisitorStore
	students StudentStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewVisitorService creates a new VisitorService
func NewVisitorService(visits VisitorStore, students StudentStore, logger zerolog.Logger) *VisitorService {
	return &VisitorService{
		visits:   visits,
		students: students,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckIn records a visitor arriving, optionally to see a student
func (s *VisitorService) CheckIn(ctx context.Context, input VisitorInput, guardEmail string) (*models.VisitorLog, error) {
	name := strings.TrimSpace(input.VisitorName)
	if name == "" {
		return nil, apperrors.NewValidationError("visitorName", "visitor name is required")
	}
	purpose := strings.TrimSpace(input.Purpose)
	if purpose == "" {
		return nil, apperrors.NewValidationError("purpose", "purpose is required")
	}

	visit := &models.VisitorLog{
		VisitorName:  name,
		VisitorPhone: trimOptional(input.VisitorPhone),
		Purpose:      purpose,
		CheckedInAt:  s.now().UTC(),
		GuardEmail:   validation.NormalizeEmail(guardEmail),
	}

	if input.StudentRollNo != nil && strings.TrimSpace(*input.StudentRollNo) != "" {
		student, err := lookupStudent(ctx, s.students, *input.StudentRollNo)
		if err != nil {
			return nil, err
		}
		visit.StudentID = &student.ID
		visit.StudentRollNo = &student.RollNo
	}

	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("visitID", visit.ID).Str("guard", visit.GuardEmail).Msg("Visitor checked in")
	return visit, nil
}

// CheckOut records a visitor leaving
func (s *VisitorService) CheckOut(ctx context.Context, id int64) (*models.VisitorLog, error) {
	return s.visits.CheckOut(ctx, id, s.now().UTC())
}

// ListActive returns visitors currently inside
func (s *VisitorService) ListActive(ctx context.Context) ([]*models.VisitorLog, error) {
	return s.visits.ListActive(ctx)
}

// List returns a page of the visitor log and the total count
func (s *VisitorService) List(ctx context.Context, page, size int) ([]*models.VisitorLog, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.visits.List(ctx, offset, limit)
}
