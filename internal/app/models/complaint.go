package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

// ComplaintType categorizes a complaint
type ComplaintType string

const (
	ComplaintInfrastructure ComplaintType = "infrastructure"
	ComplaintCleanliness    ComplaintType = "cleanliness"
	ComplaintTechnical      ComplaintType = "technical"
	ComplaintOther          ComplaintType = "other"
)

// DefaultComplaintType is used when the filing form leaves the type out
const DefaultComplaintType = ComplaintInfrastructure

// ParseComplaintType maps "" to DefaultComplaintType and rejects unknown values
func ParseComplaintType(s string) (ComplaintType, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultComplaintType, nil
	}

	t := ComplaintType(lower(s))
	switch t {
	case ComplaintInfrastructure, ComplaintCleanliness, ComplaintTechnical, ComplaintOther:
		return t, nil
	}
	return "", apperrors.NewValidationError("type",
		fmt.Sprintf("unknown complaint type %q: must be one of infrastructure, cleanliness, technical, other", s))
}

// ComplaintStatus is a complaint's lifecycle state
type ComplaintStatus string

const (
	ComplaintOpen     ComplaintStatus = "open"
	ComplaintResolved ComplaintStatus = "resolved"
	ComplaintClosed   ComplaintStatus = "closed"
)

// ParseComplaintStatus parses a status name
func ParseComplaintStatus(s string) (ComplaintStatus, error) {
	st := ComplaintStatus(lower(s))
	switch st {
	case ComplaintOpen, ComplaintResolved, ComplaintClosed:
		return st, nil
	}
	return "", apperrors.NewValidationError("status",
		fmt.Sprintf("unknown complaint status %q: must be one of open, resolved, closed", s))
}

// complaintTransitions is the whole lifecycle: open -> resolved -> closed.
// Closing straight from open is not allowed; a complaint is resolved first.
var complaintTransitions = map[ComplaintStatus]ComplaintStatus{
	ComplaintOpen:     ComplaintResolved,
	ComplaintResolved: ComplaintClosed,
}

// CanTransitionTo reports whether next directly follows s
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	want, ok := complaintTransitions[s]
	return ok && want == next
}

// Complaint defines the complaint model based on the 'complaints' table.
// Ownership is always the student_id; RollNo is joined in for display.
type Complaint struct {
	ID             int64           `json:"complaintId" db:"complaint_id" example:"12"`
	StudentID      int64           `json:"studentId" db:"student_id" example:"1"`
	RollNo         string          `json:"rollNo" db:"roll_no" example:"200101001"`
	Type           ComplaintType   `json:"type" db:"type" example:"infrastructure"`
	Description    string          `json:"description" db:"description" example:"Ceiling fan not working"`
	PhotoURL       *string         `json:"photoUrl,omitempty" db:"photo_url"`
	Status         ComplaintStatus `json:"status" db:"status" example:"open"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	ClosedAt       *time.Time      `json:"closedAt,omitempty" db:"closed_at"`
	ResolutionInfo *string         `json:"resolutionInfo,omitempty" db:"resolution_info"`
}

// Apply moves the complaint to next, stamping closed_at. Resolving requires
// resolution info; closing keeps the existing info unless new text is given.
func (c *Complaint) Apply(next ComplaintStatus, resolutionInfo string, at time.Time) error {
	if !c.Status.CanTransitionTo(next) {
		return apperrors.NewInvalidTransitionError(
			fmt.Sprintf("cannot move complaint from %s to %s", c.Status, next))
	}

	info := strings.TrimSpace(resolutionInfo)
	if next == ComplaintResolved && info == "" {
		return apperrors.NewValidationError("resolutionInfo", "resolution info is required to resolve a complaint")
	}

	if info != "" {
		c.ResolutionInfo = &info
	}
	c.Status = next
	c.ClosedAt = &at
	return nil
}

// ComplaintFilter narrows the admin complaint listing
type ComplaintFilter struct {
	StudentID *int64
	Status    *ComplaintStatus
	Type      *ComplaintType
	Offset    uint64
	Limit     int
}
