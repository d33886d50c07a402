package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrUnauthorized     = errors.New("authentication required")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrDomainNotAllowed = errors.New("email domain not allowed")

	// Sign-in with an identity provider that is not configured
	ErrProviderUnavailable = errors.New("identity provider not configured")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// State machine errors
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Role errors
var (
	ErrRoleNotFound = NewResourceNotFoundError("role assignment not found")
)

// Student errors
var (
	ErrStudentNotFound      = NewResourceNotFoundError("student not found")
	ErrStudentAlreadyExists = NewConflictError("a student with this roll number or email already exists")
)

// Room errors
var (
	ErrRoomOccupied              = NewConflictError("room is already occupied")
	ErrRoomAlreadyRequested      = NewConflictError("room already has a pending change request")
	ErrPendingRequestExists      = NewConflictError("student already has a pending room change request")
	ErrRequestNotPending         = NewConflictError("room change request is no longer pending")
	ErrRoomChangeRequestNotFound = NewResourceNotFoundError("room change request not found")
)

// Complaint errors
var (
	ErrComplaintNotFound      = NewResourceNotFoundError("complaint not found")
	ErrComplaintStatusChanged = NewConflictError("complaint status was changed by another request")
)

// Visitor errors
var (
	ErrVisitNotFound     = NewResourceNotFoundError("visit not found")
	ErrAlreadyCheckedOut = NewConflictError("visitor already checked out")
)

// Notification errors
var (
	ErrNoRecipients = NewValidationError("recipients", "at least one valid recipient address is required")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a field-level validation error
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Field:   field,
	}
}

// NewInvalidTransitionError creates an error for a rejected status change
func NewInvalidTransitionError(message string) error {
	return &CustomError{
		Err:     ErrInvalidTransition,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
