package blocklist

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes failures reported to the control surface. Codes are
// stable: callers map them onto their own result envelopes.
type ErrorCode string

const (
	// CodeStorage indicates the persistence layer failed (I/O, corruption, timeout).
	CodeStorage ErrorCode = "STORAGE_ERROR"

	// CodeNotFound indicates the number is not in the block list.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeInvalidInput indicates the request was rejected before storage access.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidTransition indicates a sync transition the state machine forbids.
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
)

// Sentinel errors. Error values wrap one of these so callers can use errors.Is.
var (
	ErrStorage           = errors.New("storage failure")
	ErrNotFound          = errors.New("number not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid sync transition")
)

// Error is the structured error returned by the store and the sync tracker.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the failed operation ("upsert", "remove", ...).
	Op string

	// Number is the affected number, if any.
	Number string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Number != "" {
		return fmt.Sprintf("%s: %s %s: %s", e.Code, e.Op, e.Number, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e's code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrStorage:
		return e.Code == CodeStorage
	case ErrNotFound:
		return e.Code == CodeNotFound
	case ErrInvalidInput:
		return e.Code == CodeInvalidInput
	case ErrInvalidTransition:
		return e.Code == CodeInvalidTransition
	}
	return false
}

// StorageError wraps a persistence failure.
func StorageError(op, number string, err error) *Error {
	return &Error{Code: CodeStorage, Op: op, Number: number, Err: err}
}

// NotFoundError reports a number absent from the block list.
func NotFoundError(op, number string) *Error {
	return &Error{Code: CodeNotFound, Op: op, Number: number, Message: "number is not blocked"}
}

// InvalidInputError reports a rejected request.
func InvalidInputError(op, message string) *Error {
	return &Error{Code: CodeInvalidInput, Op: op, Message: message}
}

// InvalidTransitionError reports a forbidden sync transition.
func InvalidTransitionError(op, number string, from, to SyncStatus) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Op:      op,
		Number:  number,
		Message: fmt.Sprintf("cannot move from %s to %s", from, to),
	}
}

// CodeOf extracts the error code from err. Errors that did not originate here
// are reported as storage failures.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStorage
}

// IsStorage reports whether err is a storage failure.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsNotFound reports whether err is a not-found outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err is an input rejection.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInvalidTransition reports whether err is a forbidden sync transition.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
