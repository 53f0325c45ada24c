package roi

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for targets without an image.
	ErrNotFound = errors.New("image not found")

	// ErrTruncated is returned when the blob ends before a target's pixels do.
	ErrTruncated = errors.New("image data truncated")

	// ErrAlreadyOpen is returned by Open on a store that is already open.
	ErrAlreadyOpen = errors.New("image store already open")
)

// TruncatedError reports a target whose pixel block extends past the end of
// the blob. Length is -1 when the record's geometry or offset cannot address
// the blob at all.
type TruncatedError struct {
	Target int
	Offset int64
	Length int64
	Size   int64
}

func (e *TruncatedError) Error() string {
	if e.Length < 0 {
		return fmt.Sprintf("roi: target %d: invalid pixel block at offset %d, blob has %d", e.Target, e.Offset, e.Size)
	}
	return fmt.Sprintf("roi: target %d: %d bytes at offset %d, blob has %d", e.Target, e.Length, e.Offset, e.Size)
}

func (e *TruncatedError) Unwrap() error { return ErrTruncated }
