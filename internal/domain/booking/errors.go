package booking

import "github.com/realrohanroy/parknesting-sub000/internal/platform/domain"

var (
	ErrInvalidRange      = domain.NewValidationError("end time must be after start time")
	ErrInvalidRate       = domain.NewValidationError("hourly rate must not be negative")
	ErrNotAvailable      = domain.NewConflictError("listing is not available for the requested time range")
	ErrInvalidTransition = &domain.DomainError{Code: domain.CodeInvalidState, Message: "invalid booking status transition"}
	ErrForbidden         = domain.NewForbiddenError("not permitted to change this booking")
)
