package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when a username/password pair does
	// not match, without saying which half was wrong.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrNotFound covers both absent rows and rows owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already exists")
	// ErrForbidden is returned when an authenticated caller lacks the role an
	// operation requires.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports field-level input problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
