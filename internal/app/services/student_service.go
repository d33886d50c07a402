package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/helpers"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// StudentService manages student records
type StudentService struct {
	students StudentStore
	domain   string
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(students StudentStore, institutionDomain string, logger zerolog.Logger) *StudentService {
	return &StudentService{
		students: students,
		domain:   validation.NormalizeDomainSuffix(institutionDomain),
		logger:   logger,
	}
}

// lookupStudent normalizes rollNo and loads its student
func lookupStudent(ctx context.Context, students StudentStore, rollNo string) (*models.Student, error) {
	rollNo = validation.NormalizeRollNo(rollNo)
	if !validation.IsValidRollNo(rollNo) {
		return nil, apperrors.NewValidationError("rollNo", "roll number must be 3-20 letters or digits")
	}
	return students.GetByRollNo(ctx, rollNo)
}

// GetByRoll returns the student with rollNo
func (s *StudentService) GetByRoll(ctx context.Context, rollNo string) (*models.Student, error) {
	return lookupStudent(ctx, s.students, rollNo)
}

// Me returns the student record of the signed-in email
func (s *StudentService) Me(ctx context.Context, email string) (*models.Student, error) {
	rollNo, err := validation.DeriveRollNo(email)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.students.GetByRollNo(ctx, rollNo)
}

// Create registers a student
func (s *StudentService) Create(ctx context.Context, input CreateStudentInput) (*models.Student, error) {
	student, err := s.buildStudent(input)
	if err != nil {
		return nil, err
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Str("rollNo", student.RollNo).Msg("Student created")
	return student, nil
}

// buildStudent validates input. The roll number is the email's local part;
// a roll number given alongside must agree with it.
func (s *StudentService) buildStudent(input CreateStudentInput) (*models.Student, error) {
	rollNo := validation.NormalizeRollNo(input.RollNo)
	if rollNo != "" && !validation.IsValidRollNo(rollNo) {
		return nil, apperrors.NewValidationError("rollNo", "roll number must be 3-20 letters or digits")
	}

	email := validation.NormalizeEmail(input.Email)
	if !validation.IsEmail(email) || !validation.IsInstitutionalEmail(email, s.domain) {
		return nil, apperrors.NewValidationError("email", "an institutional email address is required")
	}

	derived, err := validation.DeriveRollNo(email)
	if err != nil {
		return nil, apperrors.NewValidationError("email", "the email local part must be the student's roll number")
	}
	if rollNo == "" {
		rollNo = derived
	} else if rollNo != derived {
		return nil, apperrors.NewValidationError("rollNo", fmt.Sprintf("roll number must match the email address (%s)", derived))
	}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, apperrors.NewValidationError("fullName", "full name is required")
	}

	room, err := normalizeOptionalRoom(input.RoomNumber)
	if err != nil {
		return nil, err
	}

	return &models.Student{
		RollNo:           rollNo,
		Email:            email,
		FullName:         fullName,
		Department:       strings.TrimSpace(input.Department),
		Batch:            strings.TrimSpace(input.Batch),
		RoomNumber:       room,
		HostelBlock:      trimOptional(input.HostelBlock),
		FeesPaid:         input.FeesPaid,
		EmergencyContact: trimOptional(input.EmergencyContact),
	}, nil
}

// Update patches a student's profile fields
func (s *StudentService) Update(ctx context.Context, rollNo string, input UpdateStudentInput) (*models.Student, error) {
	student, err := lookupStudent(ctx, s.students, rollNo)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, apperrors.NewValidationError("fullName", "full name cannot be empty")
		}
		student.FullName = name
	}
	if input.Department != nil {
		student.Department = strings.TrimSpace(*input.Department)
	}
	if input.Batch != nil {
		student.Batch = strings.TrimSpace(*input.Batch)
	}
	if input.HostelBlock != nil {
		student.HostelBlock = trimOptional(input.HostelBlock)
	}
	if input.FeesPaid != nil {
		student.FeesPaid = *input.FeesPaid
	}
	if input.EmergencyContact != nil {
		student.EmergencyContact = trimOptional(input.EmergencyContact)
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// AssignRoom moves a student into room directly; "" vacates their room
func (s *StudentService) AssignRoom(ctx context.Context, rollNo, room string) (*models.Student, error) {
	student, err := lookupStudent(ctx, s.students, rollNo)
	if err != nil {
		return nil, err
	}

	target, err := normalizeOptionalRoom(&room)
	if err != nil {
		return nil, err
	}

	if err := s.students.AssignRoom(ctx, student.ID, target); err != nil {
		return nil, err
	}
	student.RoomNumber = target

	s.logger.Info().Str("rollNo", student.RollNo).Str("room", student.CurrentRoom()).Msg("Room assigned")
	return student, nil
}

// List returns a page of students and the total count
func (s *StudentService) List(ctx context.Context, page, size int) ([]*models.Student, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.students.List(ctx, offset, limit)
}

// normalizeOptionalRoom treats nil and blank as "no room"
func normalizeOptionalRoom(room *string) (*string, error) {
	if room == nil || strings.TrimSpace(*room) == "" {
		return nil, nil
	}
	normalized := validation.NormalizeRoom(*room)
	if !validation.IsValidRoom(normalized) {
		return nil, apperrors.NewValidationError("roomNumber", "room number must look like A-101")
	}
	return &normalized, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
