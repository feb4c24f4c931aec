package domain

import "errors"

// Domain errors represent business logic outcomes.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Returned by the state store for absent watermarks and records.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRecorded indicates a completion record already exists for
	// the (source, external id) pair. Callers must treat this as a benign
	// idempotence signal, not a failure.
	ErrAlreadyRecorded = errors.New("meeting already recorded")

	// ErrNoContent indicates stabilization observed no non-empty content
	// before its deadline.
	ErrNoContent = errors.New("no content")

	// ErrDiscovery indicates the adapter could not enumerate items at all
	// (auth or navigation failure). The run for that source is abandoned
	// with the watermark untouched.
	ErrDiscovery = errors.New("discovery failed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown adapter type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrAdapterClosed indicates the adapter has been closed.
	ErrAdapterClosed = errors.New("adapter closed")

	// ErrConfig indicates a missing or invalid required setting.
	// Fatal at startup, before any source runs.
	ErrConfig = errors.New("configuration error")
)
