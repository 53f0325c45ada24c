package ifcb

import (
	"errors"
	"fmt"

	"github.com/hupe1980/ifcb/adc"
	"github.com/hupe1980/ifcb/blobstore"
	"github.com/hupe1980/ifcb/pid"
	"github.com/hupe1980/ifcb/roi"
)

var (
	// ErrNotFound is returned when a target, image or raw file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidIdentifier is returned when a fileset name is not a bin identifier.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrClosed is returned when a closed bin is used.
	ErrClosed = errors.New("bin closed")
)

// FileError reports a raw file that could not be read.
//
// The original underlying error can be accessed via errors.Unwrap.
type FileError struct {
	Name  string
	cause error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("ifcb: %s: %v", e.Name, e.cause)
}

func (e *FileError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, adc.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, roi.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if errors.Is(err, pid.ErrInvalidIdentifier) {
		return fmt.Errorf("%w: %w", ErrInvalidIdentifier, err)
	}

	return err
}
