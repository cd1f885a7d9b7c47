package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a DomainError so transports can map it to a status.
type ErrorCode string

const (
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInvalidState ErrorCode = "INVALID_STATE"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// DomainError is a classified, user-presentable error.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewValidationError reports caller input that can never succeed as given.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(resource, id string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

// NewConflictError reports a request that collides with current state.
func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

// NewForbiddenError reports an authenticated caller acting outside its rights.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Code: CodeForbidden, Message: message}
}

// NewUnauthorizedError reports a missing or invalid identity.
func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{Code: CodeUnauthorized, Message: message}
}

// NewInvalidStateError reports a state transition the entity does not allow.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{Code: CodeInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewInternalError wraps an infrastructure failure behind a generic message.
func NewInternalError(message string, err error) *DomainError {
	return &DomainError{Code: CodeInternal, Message: message, Err: err}
}

// CodeOf returns the code of the first DomainError in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

func IsNotFound(err error) bool     { return err != nil && CodeOf(err) == CodeNotFound }
func IsConflict(err error) bool     { return err != nil && CodeOf(err) == CodeConflict }
func IsForbidden(err error) bool    { return err != nil && CodeOf(err) == CodeForbidden }
func IsValidation(err error) bool   { return err != nil && CodeOf(err) == CodeValidation }
func IsInvalidState(err error) bool { return err != nil && CodeOf(err) == CodeInvalidState }
