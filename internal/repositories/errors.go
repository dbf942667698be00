package repositories

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup, including rows
	// that exist but belong to another owner.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("record already exists")
)
