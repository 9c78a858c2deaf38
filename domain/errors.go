package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeInvalid       ErrorCode = "INVALID"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeCollaboration ErrorCode = "COLLABORATION"
	ErrCodeInternal      ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors carrying the same code and message, so sentinels survive wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalidf builds a validation error for a single field.
func Invalidf(field, format string, args ...any) *Error {
	return NewError(ErrCodeInvalid, field+": "+fmt.Sprintf(format, args...))
}

// Common domain errors.
var (
	ErrConceptNotFound              = NewError(ErrCodeNotFound, "concept not found")
	ErrConceptUnavailable           = NewError(ErrCodeNotFound, "concept is no longer available")
	ErrIdeaNotFound                 = NewError(ErrCodeNotFound, "idea not found")
	ErrSocialMediaCampaignsNotFound = NewError(ErrCodeNotFound, "social media campaigns not found")

	ErrConceptAlreadyAccepted = NewError(ErrCodeConflict, "concept already accepted")
	ErrConceptNotEvaluated    = NewError(ErrCodeConflict, "concept has not been evaluated")
	ErrConceptNotAccepted     = NewError(ErrCodeConflict, "concept is not accepted")
	ErrIdeaArchived           = NewError(ErrCodeConflict, "idea is archived")
	ErrCampaignsExist         = NewError(ErrCodeConflict, "social media campaigns already exist")
	ErrVersionConflict        = NewError(ErrCodeConflict, "aggregate was modified concurrently")
	ErrAlreadyExists          = NewError(ErrCodeConflict, "aggregate already exists")

	ErrReservationRejected = NewError(ErrCodeCollaboration, "reservation rejected")

	ErrUnauthorized   = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost domain error, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return ErrCodeInternal
}
