package repositories

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a uniqueness constraint was violated.
	ErrConflict = errors.New("record conflicts with existing data")
)
