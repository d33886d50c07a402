package models

import "time"

// Notification is a write-once log entry of a notice sent to residents
type Notification struct {
	ID         int64     `json:"notificationId" db:"notification_id" example:"7"`
	Subject    string    `json:"subject" db:"subject" example:"Water supply maintenance"`
	Message    string    `json:"message" db:"message"`
	Recipients string    `json:"recipients" db:"recipients" example:"a@iiitdmj.ac.in, b@iiitdmj.ac.in"`
	SentAt     time.Time `json:"sentAt" db:"sent_at"`
}

// VisitorLog is one guard-desk check-in
type VisitorLog struct {
	ID            int64      `json:"visitId" db:"visit_id" example:"40"`
	VisitorName   string     `json:"visitorName" db:"visitor_name" example:"R. Verma"`
	VisitorPhone  *string    `json:"visitorPhone,omitempty" db:"visitor_phone"`
	StudentID     *int64     `json:"studentId,omitempty" db:"student_id"`
	StudentRollNo *string    `json:"studentRollNo,omitempty" db:"roll_no"`
	Purpose       string     `json:"purpose" db:"purpose" example:"Parent visit"`
	CheckedInAt   time.Time  `json:"checkedInAt" db:"checked_in_at"`
	CheckedOutAt  *time.Time `json:"checkedOutAt,omitempty" db:"checked_out_at"`
	GuardEmail    string     `json:"guardEmail" db:"guard_email"`
}
