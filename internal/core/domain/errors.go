package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates a required collaborator is not configured.
	ErrNotImplemented = errors.New("not implemented")

	// ErrValidation indicates a registration form failed one or more field rules.
	ErrValidation = errors.New("validation failed")

	// ErrCorruptState indicates the persisted service list could not be parsed.
	// The catalogue falls back to an empty list when this is returned.
	ErrCorruptState = errors.New("corrupt state")

	// ErrPersist indicates the service list could not be written to its slot.
	// The in-memory list keeps the mutation.
	ErrPersist = errors.New("persist failed")

	// ErrUnsupportedBackend indicates an unknown storage backend name.
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
)
