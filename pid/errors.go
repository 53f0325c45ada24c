package pid

import "errors"

// ErrInvalidIdentifier is returned when a string matches neither identifier
// generation, or when its suffix or date is malformed.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// SyntaxError describes why a string is not a valid identifier.
//
// It matches ErrInvalidIdentifier with errors.Is.
type SyntaxError struct {
	Input  string
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Reason == "" {
		return "invalid identifier: " + e.Input
	}
	return "invalid identifier " + e.Input + ": " + e.Reason
}

func (e *SyntaxError) Is(target error) bool { return target == ErrInvalidIdentifier }

func syntaxError(input, reason string) error {
	return &SyntaxError{Input: input, Reason: reason}
}
