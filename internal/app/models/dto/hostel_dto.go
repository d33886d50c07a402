package dto

import (
	"time"

	"github.com/yigit/hostelhub/internal/app/models"
)

// AssignRoleRequest upserts a role assignment
type AssignRoleRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
	Role  string `json:"role" binding:"required,oneof=admin guard student"`
}

// CreateStudentRequest registers a student. RollNo defaults to the email's
// local part and must match it when given.
type CreateStudentRequest struct {
	RollNo           string  `json:"rollNo" binding:"omitempty,rollno"`
	Email            string  `json:"email" binding:"required,email,max=254"`
	FullName         string  `json:"fullName" binding:"required,max=120"`
	Department       string  `json:"department" binding:"omitempty,max=80"`
	Batch            string  `json:"batch" binding:"omitempty,max=20"`
	RoomNumber       *string `json:"roomNumber" binding:"omitempty,room"`
	HostelBlock      *string `json:"hostelBlock" binding:"omitempty,max=20"`
	FeesPaid         bool    `json:"feesPaid"`
	EmergencyContact *string `json:"emergencyContact" binding:"omitempty,max=40"`
}

// UpdateStudentRequest patches a student's editable fields
type UpdateStudentRequest struct {
	FullName         *string `json:"fullName" binding:"omitempty,max=120"`
	Department       *string `json:"department" binding:"omitempty,max=80"`
	Batch            *string `json:"batch" binding:"omitempty,max=20"`
	HostelBlock      *string `json:"hostelBlock" binding:"omitempty,max=20"`
	FeesPaid         *bool   `json:"feesPaid"`
	EmergencyContact *string `json:"emergencyContact" binding:"omitempty,max=40"`
}

// AssignRoomRequest moves a student directly; an empty room vacates
type AssignRoomRequest struct {
	RoomNumber string `json:"roomNumber" binding:"omitempty,room"`
}

// RoomAvailabilityResponse answers an availability check
type RoomAvailabilityResponse struct {
	Room      string `json:"room" example:"A-102"`
	Available bool   `json:"available" example:"true"`
}

// FileComplaintForm is the multipart form for filing a complaint; the photo
// part is read separately.
type FileComplaintForm struct {
	Type        string `form:"type"`
	Description string `form:"description" binding:"required,max=2000"`
}

// ComplaintStatusRequest moves a complaint along its lifecycle
type ComplaintStatusRequest struct {
	Status         string `json:"status" binding:"required,oneof=resolved closed"`
	ResolutionInfo string `json:"resolutionInfo" binding:"max=2000"`
}

// SubmitRoomChangeRequest asks for a move to a different room
type SubmitRoomChangeRequest struct {
	PreferredRoom string `json:"preferredRoom" binding:"required,room"`
	Reason        string `json:"reason" binding:"required,max=1000"`
}

// SendNotificationRequest broadcasts a notice
type SendNotificationRequest struct {
	Recipients string `json:"recipients" binding:"required"`
	Subject    string `json:"subject" binding:"required,max=200"`
	Message    string `json:"message" binding:"required,max=5000"`
}

// CheckInVisitorRequest records a visitor at the gate
type CheckInVisitorRequest struct {
	VisitorName   string  `json:"visitorName" binding:"required,max=120"`
	VisitorPhone  *string `json:"visitorPhone" binding:"omitempty,max=20"`
	StudentRollNo *string `json:"studentRollNo" binding:"omitempty,rollno"`
	Purpose       string  `json:"purpose" binding:"required,max=200"`
}

// ComplaintResponse is the API view of a complaint
type ComplaintResponse struct {
	ID             int64      `json:"complaintId"`
	RollNo         string     `json:"rollNo"`
	Type           string     `json:"type"`
	Description    string     `json:"description"`
	PhotoURL       *string    `json:"photoUrl,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	ClosedAt       *time.Time `json:"closedAt,omitempty"`
	ResolutionInfo *string    `json:"resolutionInfo,omitempty"`
}

// NewComplaintResponse maps a complaint model to its API view
func NewComplaintResponse(c *models.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:             c.ID,
		RollNo:         c.RollNo,
		Type:           string(c.Type),
		Description:    c.Description,
		PhotoURL:       c.PhotoURL,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		ClosedAt:       c.ClosedAt,
		ResolutionInfo: c.ResolutionInfo,
	}
}

// NewComplaintResponses maps a slice of complaints
func NewComplaintResponses(complaints []*models.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(complaints))
	for _, c := range complaints {
		out = append(out, NewComplaintResponse(c))
	}
	return out
}
