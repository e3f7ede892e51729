package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain error taxonomy. Controllers return these; handlers translate them
// to HTTP statuses. Data-access failures are wrapped driver errors and fall
// through to the generic branch.
var (
	ErrNotFound          = errors.New("resource not found in company")
	ErrMissingField      = errors.New("missing required field")
	ErrDuplicateWorker   = errors.New("worker assigned to more than one role")
	ErrConflict          = errors.New("assignment conflicts with an existing schedule")
	ErrDuplicateSchedule = errors.New("identical schedule already exists")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrForbidden         = errors.New("operation not permitted for this role")
	ErrCompanyBlocked    = errors.New("company is blocked")
	ErrUnauthorized      = errors.New("invalid or missing credentials")
)

// MissingFieldError names the field so the caller can render an actionable
// message. errors.Is(err, ErrMissingField) matches it.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// ConflictError carries the IDs of the schedules the proposed assignment
// collides with. errors.Is(err, ErrConflict) matches it.
type ConflictError struct {
	ScheduleIDs []uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("assignment conflicts with %d existing schedule(s)", len(e.ScheduleIDs))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
