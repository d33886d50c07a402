package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/yigit/hostelhub/internal/app/models"
)

// Stores the services depend on. The pgx repositories implement them; tests
// use in-memory fakes.

// RoleLookup reads a single role assignment. A missing assignment is
// reported as apperrors.ErrRoleNotFound.
type RoleLookup interface {
	GetRole(ctx context.Context, email string) (models.Role, error)
}

// RoleStore is RoleLookup plus administration
type RoleStore interface {
	RoleLookup
	Upsert(ctx context.Context, assignment *models.RoleAssignment) error
	List(ctx context.Context) ([]*models.RoleAssignment, error)
}

// StudentStore persists student records
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByRollNo(ctx context.Context, rollNo string) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	List(ctx context.Context, offset uint64, limit int) ([]*models.Student, int64, error)
	IsRoomOccupied(ctx context.Context, room string) (bool, error)
	AssignRoom(ctx context.Context, studentID int64, room *string) error
}

// ComplaintStore persists complaints. UpdateStatus only applies when the
// stored status still equals from.
type ComplaintStore interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id int64) (*models.Complaint, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Complaint, error)
	List(ctx context.Context, filter models.ComplaintFilter) ([]*models.Complaint, int64, error)
	UpdateStatus(ctx context.Context, complaint *models.Complaint, from models.ComplaintStatus) error
}

// RoomChangeStore persists room change requests. CreateIfRoomFree checks
// occupancy and pending requests for the preferred room and inserts, as
// one serialized step.
type RoomChangeStore interface {
	CreateIfRoomFree(ctx context.Context, request *models.RoomChangeRequest) error
	GetByID(ctx context.Context, id int64) (*models.RoomChangeRequest, error)
	ListPending(ctx context.Context) ([]*models.RoomChangeRequest, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.RoomChangeRequest, error)
	Approve(ctx context.Context, id int64, at time.Time) (*models.RoomChangeRequest, error)
	Reject(ctx context.Context, id int64, at time.Time) (*models.RoomChangeRequest, error)
}

// NotificationStore is the append-only notification log
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context) ([]*models.Notification, error)
}

// VisitorStore persists guard-desk visits
type VisitorStore interface {
	Create(ctx context.Context, visit *models.VisitorLog) error
	CheckOut(ctx context.Context, id int64, at time.Time) (*models.VisitorLog, error)
	ListActive(ctx context.Context) ([]*models.VisitorLog, error)
	List(ctx context.Context, offset uint64, limit int) ([]*models.VisitorLog, int64, error)
}

// BlobStore keeps uploaded files and hands back their public URL
type BlobStore interface {
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)
	DeleteFile(fileURL string) error
}

// Mailer delivers a notification by email
type Mailer interface {
	SendNotification(ctx context.Context, recipients []string, subject, message string) error
}

// NotificationPublisher pushes a logged notification to live dashboards
type NotificationPublisher interface {
	Publish(recipients []string, notification *models.Notification)
}

// Input types

// FileComplaintInput is a student's complaint submission
type FileComplaintInput struct {
	RollNo      string
	Type        string
	Description string
	Photo       *multipart.FileHeader
}

// TransitionInput moves a complaint to its next status
type TransitionInput struct {
	Status         string
	ResolutionInfo string
}

// SubmitRoomChangeInput is a student's room change request
type SubmitRoomChangeInput struct {
	RollNo        string
	PreferredRoom string
	Reason        string
}

// CreateStudentInput registers a student
type CreateStudentInput struct {
	RollNo           string
	Email            string
	FullName         string
	Department       string
	Batch            string
	RoomNumber       *string
	HostelBlock      *string
	FeesPaid         bool
	EmergencyContact *string
}

// UpdateStudentInput patches a student; nil fields are left unchanged
type UpdateStudentInput struct {
	FullName         *string
	Department       *string
	Batch            *string
	HostelBlock      *string
	FeesPaid         *bool
	EmergencyContact *string
}

// NotificationInput is a broadcast notice
type NotificationInput struct {
	Subject    string
	Message    string
	Recipients string
}

// VisitorInput is a guard-desk check-in
type VisitorInput struct {
	VisitorName   string
	VisitorPhone  *string
	StudentRollNo *string
	Purpose       string
}
