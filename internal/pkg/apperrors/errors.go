package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleMismatch       = errors.New("role mismatch")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrNoUpdates        = errors.New("no updates provided")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrStudentCodeTaken   = errors.New("student code already in use")
)

// Student linkage errors
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrNoLinkedStudent    = errors.New("no linked student found")
	ErrStudentCodeMissing = errors.New("student code is required")
)

// Study plan errors
var (
	ErrStudyPlanNotFound = errors.New("no active study plan found")
	ErrSessionNotFound   = errors.New("session not found")
)

// Tracker errors
var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrFlashcardNotFound    = errors.New("flashcard not found")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrTopicNotFound        = errors.New("curriculum topic not found")
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

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
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

// PublicMessage returns the message that may be shown to API callers.
// Only errors carrying an explicit message expose it; everything else
// falls back to the provided default.
func PublicMessage(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
