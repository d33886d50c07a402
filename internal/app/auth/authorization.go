package auth

import (
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// Actor is the signed-in caller of a request: the session email and the role
// it resolved to.
type Actor struct {
	Email string
	Role  models.Role
}

// RollNo is the roll number derived from the actor's email, "" when the
// email does not yield one.
func (a Actor) RollNo() string {
	rollNo, err := validation.DeriveRollNo(a.Email)
	if err != nil {
		return ""
	}
	return rollNo
}

// IsAdmin reports whether the actor is an admin
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// IsStaff reports whether the actor is an admin or a guard
func (a Actor) IsStaff() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleGuard
}

// Owns reports whether rollNo is the actor's own roll number
func (a Actor) Owns(rollNo string) bool {
	own := a.RollNo()
	return own != "" && own == validation.NormalizeRollNo(rollNo)
}

// ValidateStudentAccess allows staff, or a student reading their own record
func ValidateStudentAccess(actor Actor, rollNo string) error {
	if actor.IsStaff() || actor.Owns(rollNo) {
		return nil
	}
	return apperrors.NewForbiddenError("you can only view your own student record")
}

// ValidateComplaintAccess allows admins, or the student who filed the complaint
func ValidateComplaintAccess(actor Actor, complaint *models.Complaint) error {
	if actor.IsAdmin() || actor.Owns(complaint.RollNo) {
		return nil
	}
	return apperrors.NewForbiddenError("you can only view your own complaints")
}
