package adc

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a target number is outside the table.
	ErrNotFound = errors.New("target not found")

	// ErrFieldCount is returned when a record's field count disagrees with the schema.
	ErrFieldCount = errors.New("field count mismatch")

	// ErrParse is returned when a field is not a number or a line is malformed.
	ErrParse = errors.New("malformed record")
)

// FieldCountError reports a record with the wrong number of fields.
type FieldCountError struct {
	Target   int
	Line     int
	Expected int
	Actual   int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("adc: target %d (line %d): expected %d fields, got %d", e.Target, e.Line, e.Expected, e.Actual)
}

func (e *FieldCountError) Unwrap() error { return ErrFieldCount }

// ParseError reports a field that could not be parsed.
//
// The underlying error, if any, is available through errors.Unwrap; errors.Is
// also matches ErrParse.
type ParseError struct {
	Line   int
	Column int
	Value  string
	cause  error
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("adc: line %d, column %d: invalid value %q", e.Line, e.Column, e.Value)
	}
	return fmt.Sprintf("adc: line %d: %v", e.Line, e.cause)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.cause} }

func notFound(n int) error {
	return fmt.Errorf("%w: %d", ErrNotFound, n)
}
