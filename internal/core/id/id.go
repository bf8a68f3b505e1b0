// Package id generates the identifiers used across all entities.
// IDs are UUIDv7: the embedded timestamp keeps inserts roughly ordered,
// which keeps PostgreSQL B-tree pages warm without a created_at index.
package id

import "github.com/google/uuid"

// ID is the identifier type for every entity.
type ID = uuid.UUID

// New generates a time-ordered UUIDv7.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to v4.
		return uuid.New()
	}
	return v7
}

// Parse converts a string to an ID.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse is Parse for constants and tests; panics on bad input.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether id is the zero ID.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
