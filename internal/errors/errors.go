package errors

import "fmt"

// ErrorCode represents a StudyMatch error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"  // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"        // 404
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"   // 404
	ErrNoMatch        ErrorCode = "NO_MATCH"         // 404 (empty ranking, distinct from NOT_FOUND)
	ErrDuplicateEID   ErrorCode = "DUPLICATE_EID"    // 409
	ErrRosterTooLarge ErrorCode = "ROSTER_TOO_LARGE" // 413
	ErrInternal       ErrorCode = "INTERNAL"         // 500
)

// MatchError represents a structured error with code, status, and details.
type MatchError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *MatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *MatchError {
	return &MatchError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a student cannot be found.
func NewNotFound(eid string) *MatchError {
	return &MatchError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("student not found: %s", eid),
		Details: map[string]any{"eid": eid},
	}
}

// NewFileNotFound creates a 404 error for a missing file path.
func NewFileNotFound(path string) *MatchError {
	return &MatchError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNoMatch creates a 404 error for when no ranking entry is available.
// Distinct from NOT_FOUND: the seeker exists but the ranking is empty or drained.
func NewNoMatch(eid string) *MatchError {
	return &MatchError{
		Code:    ErrNoMatch,
		Status:  404,
		Message: fmt.Sprintf("no match available for: %s", eid),
		Details: map[string]any{"eid": eid},
	}
}

// NewDuplicateEID creates a 409 error for EID collisions.
func NewDuplicateEID(eid string) *MatchError {
	return &MatchError{
		Code:    ErrDuplicateEID,
		Status:  409,
		Message: fmt.Sprintf("student with eid %q already exists", eid),
		Details: map[string]any{"eid": eid},
	}
}

// NewRosterTooLarge creates a 413 error when an import would exceed the roster cap.
func NewRosterTooLarge(max, actual int) *MatchError {
	return &MatchError{
		Code:    ErrRosterTooLarge,
		Status:  413,
		Message: fmt.Sprintf("roster exceeds maximum size: %d students (max %d)", actual, max),
		Details: map[string]any{"max_students": max, "actual_students": actual},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *MatchError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &MatchError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a MatchError with the given code.
func Is(err error, code ErrorCode) bool {
	if mErr, ok := err.(*MatchError); ok {
		return mErr.Code == code
	}
	return false
}
