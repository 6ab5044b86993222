package storage

import "errors"

// Sentinel errors shared by every store backend. Callers match them with
// errors.Is; backends translate driver-specific failures into these.
var (
	// ErrNotFound reports that no record exists for the requested key.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey reports an insert whose key is already present.
	// Stores are append-only, so a key collision is never an update.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput reports a record that failed validation before any
	// write was attempted.
	ErrInvalidInput = errors.New("invalid input")
)
