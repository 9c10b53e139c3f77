package cascade

import (
	"errors"
	"fmt"

	"github.com/roach88/dayscore/internal/ir"
)

// Error represents a caller bug detected before or during a cascade.
// Data conditions (gaps, unscored days) never produce an Error; they only
// shape the walk.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Date is the edited date the cascade was asked about.
	Date ir.Date
}

// ErrorCode categorizes cascade errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the edited date is absent from the history.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if !e.Date.IsZero() {
		return fmt.Sprintf("%s: %s (date=%s)", e.Code, e.Message, e.Date)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound returns true if the error is a missing-date error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeNotFound
	}
	return false
}

// NewNotFoundError creates an Error for an edited date missing from history.
func NewNotFoundError(date ir.Date) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: "edited date not found in history",
		Date:    date,
	}
}
