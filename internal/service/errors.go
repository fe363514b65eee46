package service

import "errors"

// Domain error kinds. Anything else coming out of the service is a storage
// or driver failure and should be treated as transient by the caller.
var (
	// ErrValidation is returned when input fails a structural constraint.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound is returned when the referenced board or member does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the acting user lacks the required
	// role or membership for the requested operation.
	ErrUnauthorized = errors.New("unauthorized")
)
