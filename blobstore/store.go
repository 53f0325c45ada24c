package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore gives read access to immutable blobs (raw files) by name.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes at offset off. It returns io.EOF when fewer
	// bytes remain.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
	// ReadRange returns a reader over [off, off+length), clamped to the blob.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
}

// Lister is implemented by stores that can enumerate their blobs.
type Lister interface {
	// List returns the sorted names of all blobs starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	// This is a zero-copy operation if supported.
	Bytes() ([]byte, error)
}

// Downloadable is an optional interface for remote Blobs that can fetch
// their whole content faster than a single sequential read.
type Downloadable interface {
	Download(ctx context.Context) ([]byte, error)
}

// ReadAll returns the whole content of b. The result stays valid after b is
// closed.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	switch v := b.(type) {
	case Mappable:
		data, err := v.Bytes()
		if err != nil {
			return nil, err
		}
		return bytes.Clone(data), nil
	case Downloadable:
		return v.Download(ctx)
	}
	if b.Size() == 0 {
		return nil, nil
	}
	r, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// NewReader returns a sequential reader over b. Parsers that stop early only
// fetch what they consume.
func NewReader(ctx context.Context, b Blob) io.Reader {
	return &sectionReader{blob: b, ctx: ctx, limit: b.Size()}
}

// sectionReader adapts a Blob to io.Reader with a fixed context.
type sectionReader struct {
	blob  Blob
	ctx   context.Context
	off   int64
	limit int64
}

func (r *sectionReader) Read(p []byte) (n int, err error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if remaining := r.limit - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err = r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return
}

// Stat reports whether name exists in s and its size.
func Stat(ctx context.Context, s BlobStore, name string) (size int64, err error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return 0, err
	}
	defer b.Close()
	return b.Size(), nil
}
