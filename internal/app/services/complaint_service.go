package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/filestorage"
	"github.com/yigit/hostelhub/internal/pkg/helpers"
)

const complaintPhotoDir = "complaints"

// ComplaintListInput filters the admin complaint listing
type ComplaintListInput struct {
	RollNo string
	Status string
	Type   string
	Page   int
	Size   int
}

// ComplaintService runs the complaint lifecycle
type ComplaintService struct {
	complaints ComplaintStore
	students   StudentStore
	blobs      BlobStore
	logger     zerolog.Logger
	now        func() time.Time
}

// NewComplaintService creates a new ComplaintService
func NewComplaintService(complaints ComplaintStore, students StudentStore, blobs BlobStore, logger zerolog.Logger) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		students:   students,
		blobs:      blobs,
		logger:     logger,
		now:        time.Now,
	}
}

// File records a new open complaint. Filing the same payload twice creates
// two complaints.
func (s *ComplaintService) File(ctx context.Context, input FileComplaintInput) (*models.Complaint, error) {
	complaintType, err := models.ParseComplaintType(input.Type)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.NewValidationError("description", "description is required")
	}

	student, err := lookupStudent(ctx, s.students, input.RollNo)
	if err != nil {
		return nil, err
	}

	complaint := &models.Complaint{
		StudentID:   student.ID,
		RollNo:      student.RollNo,
		Type:        complaintType,
		Description: description,
		Status:      models.ComplaintOpen,
		CreatedAt:   s.now().UTC(),
	}

	if input.Photo != nil {
		url, err := s.blobs.SaveFileWithPath(input.Photo, complaintPhotoDir)
		if err != nil {
			if errors.Is(err, filestorage.ErrUnsupportedFileType) || errors.Is(err, filestorage.ErrFileTooLarge) {
				return nil, apperrors.NewValidationError("photo", err.Error())
			}
			s.logger.Error().Err(err).Str("rollNo", student.RollNo).Msg("Failed to store complaint photo")
			return nil, err
		}
		complaint.PhotoURL = &url
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		if complaint.PhotoURL != nil {
			if delErr := s.blobs.DeleteFile(*complaint.PhotoURL); delErr != nil {
				s.logger.Warn().Err(delErr).Str("url", *complaint.PhotoURL).Msg("Failed to remove orphaned complaint photo")
			}
		}
		return nil, err
	}

	s.logger.Info().Int64("complaintID", complaint.ID).Str("rollNo", student.RollNo).Str("type", string(complaintType)).Msg("Complaint filed")
	return complaint, nil
}

// ListFor returns a student's complaints, newest first
func (s *ComplaintService) ListFor(ctx context.Context, rollNo string) ([]*models.Complaint, error) {
	student, err := lookupStudent(ctx, s.students, rollNo)
	if err != nil {
		return nil, err
	}
	return s.complaints.ListByStudent(ctx, student.ID)
}

// ListAll returns a filtered page of all complaints and the total count
func (s *ComplaintService) ListAll(ctx context.Context, input ComplaintListInput) ([]*models.Complaint, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(input.Page, input.Size)
	filter := models.ComplaintFilter{Offset: offset, Limit: limit}

	if strings.TrimSpace(input.RollNo) != "" {
		student, err := lookupStudent(ctx, s.students, input.RollNo)
		if err != nil {
			return nil, 0, err
		}
		filter.StudentID = &student.ID
	}
	if strings.TrimSpace(input.Status) != "" {
		status, err := models.ParseComplaintStatus(input.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = &status
	}
	if strings.TrimSpace(input.Type) != "" {
		complaintType, err := models.ParseComplaintType(input.Type)
		if err != nil {
			return nil, 0, err
		}
		filter.Type = &complaintType
	}

	return s.complaints.List(ctx, filter)
}

// Get returns one complaint
func (s *ComplaintService) Get(ctx context.Context, id int64) (*models.Complaint, error) {
	return s.complaints.GetByID(ctx, id)
}

// Transition moves a complaint to its next status
func (s *ComplaintService) Transition(ctx context.Context, id int64, input TransitionInput) (*models.Complaint, error) {
	next, err := models.ParseComplaintStatus(input.Status)
	if err != nil {
		return nil, err
	}

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := complaint.Status
	if err := complaint.Apply(next, input.ResolutionInfo, s.now().UTC()); err != nil {
		return nil, err
	}

	if err := s.complaints.UpdateStatus(ctx, complaint, from); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("complaintID", id).Str("from", string(from)).Str("to", string(next)).Msg("Complaint status changed")
	return complaint, nil
}
