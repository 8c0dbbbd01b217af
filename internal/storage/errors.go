package storage

import "errors"

// Storage errors for append-only account stores.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when attempting to insert a record
	// with a key that already exists. Accounts are initialized exactly once.
	ErrDuplicateKey = errors.New("duplicate key: account already initialized")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
