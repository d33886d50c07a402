package models

import "time"

// RoomChangeStatus tracks a room change request
type RoomChangeStatus string

const (
	RoomChangePending  RoomChangeStatus = "pending"
	RoomChangeApproved RoomChangeStatus = "approved"
	RoomChangeRejected RoomChangeStatus = "rejected"
)

// RoomChangeRequest defines the 'room_change_requests' table
type RoomChangeRequest struct {
	ID            int64            `json:"requestId" db:"request_id" example:"3"`
	StudentID     int64            `json:"studentId" db:"student_id" example:"1"`
	RollNo        string           `json:"rollNo" db:"roll_no" example:"200101001"`
	FullName      string           `json:"fullName" db:"full_name" example:"Asha Verma"`
	CurrentRoom   string           `json:"currentRoom" db:"current_room" example:"A-101"`
	PreferredRoom string           `json:"preferredRoom" db:"preferred_room" example:"A-102"`
	Reason        string           `json:"reason" db:"reason" example:"Closer to the reading room"`
	Status        RoomChangeStatus `json:"status" db:"status" example:"pending"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
	DecidedAt     *time.Time       `json:"decidedAt,omitempty" db:"decided_at"`
}
