package models

import (
	"strings"
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID               int64     `json:"studentId" db:"student_id" example:"1"`
	RollNo           string    `json:"rollNo" db:"roll_no" example:"200101001"`
	Email            string    `json:"email" db:"email" example:"200101001@iiitdmj.ac.in"`
	FullName         string    `json:"fullName" db:"full_name" example:"Asha Verma"`
	Department       string    `json:"department" db:"department" example:"CSE"`
	Batch            string    `json:"batch" db:"batch" example:"2020"`
	RoomNumber       *string   `json:"roomNumber,omitempty" db:"room_number" example:"A-101"`
	HostelBlock      *string   `json:"hostelBlock,omitempty" db:"hostel_block" example:"A"`
	FeesPaid         bool      `json:"feesPaid" db:"fees_paid"`
	EmergencyContact *string   `json:"emergencyContact,omitempty" db:"emergency_contact"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

// CurrentRoom returns the assigned room or "" when unassigned
func (s *Student) CurrentRoom() string {
	if s == nil || s.RoomNumber == nil {
		return ""
	}
	return *s.RoomNumber
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
