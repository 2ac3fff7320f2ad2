package parse

import (
	"errors"
	"fmt"
)

// ErrMissingField marks a required field that is absent from a raw document.
var ErrMissingField = errors.New("missing required field")

// Error is a structural validation failure for a single raw record. It
// carries enough context to identify the record in logs; the record is
// skipped and processing continues.
type Error struct {
	Entity string
	Field  string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("parsing %s: field %q: %v", e.Entity, e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func missing(entity, field string) *Error {
	return &Error{Entity: entity, Field: field, Err: ErrMissingField}
}

// Summary counts the outcome of parsing one batch.
type Summary struct {
	Parsed   int
	Skipped  int
	Orphaned int
}

func (s *Summary) add(other Summary) {
	s.Parsed += other.Parsed
	s.Skipped += other.Skipped
	s.Orphaned += other.Orphaned
}
