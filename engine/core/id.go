// Package core holds small value types shared across every subsystem of the
// engine: identifiers, the common error shape, and timestamp helpers.
package core

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// ID is a durable, sortable identifier used for executions and input
// requests. Task IDs come from the workflow document, not from NewID.
type ID string

func (id ID) String() string {
	return string(id)
}

// IsZero reports whether id is the empty string.
func (id ID) IsZero() bool {
	return id == ""
}

// NewID generates a fresh KSUID-backed identifier.
func NewID() (ID, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate new id: %w", err)
	}
	return ID(id.String()), nil
}

// MustNewID generates a fresh ID and panics if generation fails. Only safe
// to call in a context where a failure indicates an unrecoverable host
// problem (e.g. no entropy source).
func MustNewID() ID {
	id, err := NewID()
	if err != nil {
		panic(err)
	}
	return id
}

// ParseID validates that s is a well-formed ID.
func ParseID(s string) (ID, error) {
	if s == "" {
		return "", fmt.Errorf("empty id")
	}
	if _, err := ksuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid id format: %w", err)
	}
	return ID(s), nil
}
