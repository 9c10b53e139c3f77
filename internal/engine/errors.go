package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/dayscore/internal/ir"
)

// Error represents a rejected engine command.
//
// Errors include:
//   - Not found: the date or habit does not exist
//   - Invalid date: a log date in the future
//   - Invalid entry: an entry naming unknown habits or out-of-range values
//   - Catalog: no catalog imported, or the catalog failed validation
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Date is the affected date, if any.
	Date ir.Date

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a missing date or habit.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidDate indicates a date the engine refuses to log.
	ErrCodeInvalidDate ErrorCode = "INVALID_DATE"

	// ErrCodeInvalidEntry indicates a raw entry that does not fit the catalog.
	ErrCodeInvalidEntry ErrorCode = "INVALID_ENTRY"

	// ErrCodeCatalog indicates a missing or invalid catalog.
	ErrCodeCatalog ErrorCode = "CATALOG"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if !e.Date.IsZero() {
		msg += fmt.Sprintf(" (date=%s)", e.Date)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// IsNotFound returns true if the error is a not-found error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsInvalidDate returns true if the error rejects a log date.
func IsInvalidDate(err error) bool {
	return hasCode(err, ErrCodeInvalidDate)
}

// IsInvalidEntry returns true if the error rejects a raw entry.
func IsInvalidEntry(err error) bool {
	return hasCode(err, ErrCodeInvalidEntry)
}

// IsCatalogError returns true if the error is about the catalog itself.
func IsCatalogError(err error) bool {
	return hasCode(err, ErrCodeCatalog)
}

func notFound(date ir.Date, msg string, err error) *Error {
	return &Error{Code: ErrCodeNotFound, Message: msg, Date: date, Err: err}
}

func invalidEntry(date ir.Date, msg string) *Error {
	return &Error{Code: ErrCodeInvalidEntry, Message: msg, Date: date}
}

func catalogError(msg string, err error) *Error {
	return &Error{Code: ErrCodeCatalog, Message: msg, Err: err}
}
