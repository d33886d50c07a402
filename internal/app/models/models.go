package models

import "time"

// Role gates which dashboard a signed-in user lands on
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleGuard   Role = "guard"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGuard, RoleStudent:
		return true
	}
	return false
}

// ParseRole parses a role name, case-insensitively
func ParseRole(s string) (Role, bool) {
	role := Role(lower(s))
	return role, role.Valid()
}

// RoleAssignment maps one email to one role
type RoleAssignment struct {
	Email      string    `json:"email" db:"email" example:"warden@iiitdmj.ac.in"`
	Role       Role      `json:"role" db:"role" example:"admin"`
	AssignedAt time.Time `json:"assignedAt" db:"assigned_at"`
}
