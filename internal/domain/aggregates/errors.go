package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes failure semantics across the engine.
type ErrorCode string

const (
	// CodeValidation marks malformed input that should have been caught by the request schema.
	CodeValidation ErrorCode = "validation"
	// CodeUnauthorized covers missing sessions, wrong roles, missing enrollment and foreign ownership.
	CodeUnauthorized ErrorCode = "unauthorized"
	CodeNotFound     ErrorCode = "not_found"
	// CodeState marks a request that is well-formed but not allowed in the current state
	// (unpublished quiz, attempt limit reached, empty quiz at publish time).
	CodeState       ErrorCode = "state"
	CodeConflict    ErrorCode = "conflict"
	CodePersistence ErrorCode = "persistence"
	CodeInternal    ErrorCode = "internal"
)

// Error is the canonical engine error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an engine error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with engine error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func ValidationError(op, msg string) error   { return NewError(CodeValidation, op, msg, nil) }
func AuthorizationError(op, msg string) error { return NewError(CodeUnauthorized, op, msg, nil) }
func NotFoundError(op, msg string) error     { return NewError(CodeNotFound, op, msg, nil) }
func StateError(op, msg string) error        { return NewError(CodeState, op, msg, nil) }

// PersistenceError tags a record-store failure.
func PersistenceError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) {
		return cause
	}
	return NewError(CodePersistence, op, cause.Error(), cause)
}

// IsCode checks whether err (or wrapped err) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return false
	}
	return aggErr.Code == code
}

// CodeOf extracts the error code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// MessageOf returns the bare message without op/code decoration.
func MessageOf(err error) string {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	return aggErr.Message
}
