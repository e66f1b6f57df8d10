package review

import (
	"errors"
	"fmt"
)

var (
	// ErrSentenceNotFound is returned when a submission names an unknown
	// sentence id.
	ErrSentenceNotFound = errors.New("review: sentence not found")

	// ErrReviewLogNotFound is returned by Undo when the review-log id
	// does not exist (or was already undone).
	ErrReviewLogNotFound = errors.New("review: review log not found")
)

// ValidationError wraps field-specific request validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
