package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/ponto/internal/store"
)

// LedgerError represents a rejected or failed ledger operation.
//
// Ledger errors include:
//   - Not found: unknown employee or event
//   - Invalid kind: event kind outside the four known kinds
//   - Sequence violation: normal recording broke the daily ordering rule
//   - Duplicate event: the (employee, kind, day) slot is already taken
//   - Missing justification: administrative edit without enough reason
//   - Mismatch: event does not belong to the stated employee
//   - Storage error: persistence failure, including lock timeouts
//
// Message is safe to show to an operator; Err carries the underlying cause
// for storage failures.
type LedgerError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the wrapped cause, if any.
	Err error
}

// ErrorCode categorizes ledger errors.
type ErrorCode string

const (
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeInvalidKind          ErrorCode = "INVALID_KIND"
	ErrCodeSequenceViolation    ErrorCode = "SEQUENCE_VIOLATION"
	ErrCodeDuplicateEvent       ErrorCode = "DUPLICATE_EVENT"
	ErrCodeMissingJustification ErrorCode = "MISSING_JUSTIFICATION"
	ErrCodeMismatch             ErrorCode = "MISMATCH"
	ErrCodeStorage              ErrorCode = "STORAGE_ERROR"
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
)

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first LedgerError in err's chain, or "" if
// there is none.
func CodeOf(err error) ErrorCode {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND ledger error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsInvalidKind reports whether err is an INVALID_KIND ledger error.
func IsInvalidKind(err error) bool { return CodeOf(err) == ErrCodeInvalidKind }

// IsSequenceViolation reports whether err is a SEQUENCE_VIOLATION ledger error.
func IsSequenceViolation(err error) bool { return CodeOf(err) == ErrCodeSequenceViolation }

// IsDuplicateEvent reports whether err is a DUPLICATE_EVENT ledger error.
func IsDuplicateEvent(err error) bool { return CodeOf(err) == ErrCodeDuplicateEvent }

// IsMissingJustification reports whether err is a MISSING_JUSTIFICATION ledger error.
func IsMissingJustification(err error) bool { return CodeOf(err) == ErrCodeMissingJustification }

// IsMismatch reports whether err is a MISMATCH ledger error.
func IsMismatch(err error) bool { return CodeOf(err) == ErrCodeMismatch }

// IsStorage reports whether err is a STORAGE_ERROR ledger error.
func IsStorage(err error) bool { return CodeOf(err) == ErrCodeStorage }

// IsInvalidInput reports whether err is an INVALID_INPUT ledger error.
func IsInvalidInput(err error) bool { return CodeOf(err) == ErrCodeInvalidInput }

// NewError creates a LedgerError with a formatted message.
func NewError(code ErrorCode, format string, args ...any) *LedgerError {
	return &LedgerError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewSequenceError creates a LedgerError for a sequencing rejection.
func NewSequenceError(reason string) *LedgerError {
	return &LedgerError{Code: ErrCodeSequenceViolation, Message: reason}
}

// Classify converts any error from a ledger operation into a *LedgerError.
// Ledger errors pass through; store sentinels and driver failures become
// NOT_FOUND, DUPLICATE_EVENT or STORAGE_ERROR.
func Classify(err error) *LedgerError {
	var le *LedgerError
	if errors.As(err, &le) {
		return le
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &LedgerError{Code: ErrCodeNotFound, Message: "not found", Err: err}
	case errors.Is(err, store.ErrDuplicate):
		return &LedgerError{Code: ErrCodeDuplicateEvent, Message: "event already recorded for this day", Err: err}
	case store.IsBusy(err), errors.Is(err, context.DeadlineExceeded):
		return &LedgerError{Code: ErrCodeStorage, Message: "storage timed out waiting for a lock", Err: err}
	default:
		return &LedgerError{Code: ErrCodeStorage, Message: "storage error", Err: err}
	}
}
