package services

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is returned whenever an authorization check fails.
	// It deliberately carries no detail about the permission model.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)

// InvalidTransitionError reports a state change with no matching edge in the
// workflow graph. From is empty for manuscripts that have no state yet.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("invalid transition: no initial state %q", e.To)
	}
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

// ValidationError reports malformed input with the violated constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// DuplicateConflictError surfaces a uniqueness race that persisted after the
// internal retry.
type DuplicateConflictError struct {
	Entity string
}

func (e *DuplicateConflictError) Error() string {
	return fmt.Sprintf("duplicate conflict on %s", e.Entity)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var t *InvalidTransitionError
	return errors.As(err, &t)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsDuplicateConflict reports whether err is a DuplicateConflictError.
func IsDuplicateConflict(err error) bool {
	var d *DuplicateConflictError
	return errors.As(err, &d)
}
