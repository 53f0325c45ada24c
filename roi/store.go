package roi

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/ifcb/adc"
	"github.com/hupe1980/ifcb/blobstore"
	"github.com/hupe1980/ifcb/pid"
	"github.com/hupe1980/ifcb/schema"
)

// Store gives keyed access to the images of one bin.
//
// The blob handle is the only mutable state. It is either held between Open
// and Close, or acquired and released around each Get.
type Store struct {
	table *adc.Table
	blobs blobstore.BlobStore
	name  string
	keys  *roaring.Bitmap

	mu   sync.RWMutex
	blob blobstore.Blob
}

// FromTable builds a store over the blob called name in blobs, addressed by
// table.
func FromTable(table *adc.Table, blobs blobstore.BlobStore, name string) *Store {
	s := table.Schema()
	keys := roaring.New()
	for n, rec := range table.All() {
		if rec.Int(s.RoiWidth) > 0 && rec.Int(s.RoiHeight) > 0 {
			keys.Add(uint32(n))
		}
	}
	keys.RunOptimize()
	return &Store{
		table: table,
		blobs: blobs,
		name:  name,
		keys:  keys,
	}
}

// FromPath parses the .adc file at adcPath and returns a store over the local
// file roiPath. The schema follows from the identifier in adcPath's name.
func FromPath(adcPath, roiPath string, optFns ...adc.Option) (*Store, error) {
	p, err := pid.Parse(adcPath)
	if err != nil {
		return nil, err
	}
	s, err := schema.For(p.SchemaVersion())
	if err != nil {
		return nil, err
	}
	table, err := adc.ParseFile(adcPath, s, optFns...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", adcPath, err)
	}
	return FromTable(table, blobstore.NewLocalStore(""), roiPath), nil
}

// Table returns the records the store is addressed by.
func (s *Store) Table() *adc.Table { return s.table }

// Name returns the blob name.
func (s *Store) Name() string { return s.name }

// Keys returns the targets that have an image, in ascending order.
func (s *Store) Keys() []int {
	keys := make([]int, 0, s.keys.GetCardinality())
	it := s.keys.Iterator()
	for it.HasNext() {
		keys = append(keys, int(it.Next()))
	}
	return keys
}

// Bitmap returns a copy of the key set.
func (s *Store) Bitmap() *roaring.Bitmap { return s.keys.Clone() }

// Len returns the number of images.
func (s *Store) Len() int { return int(s.keys.GetCardinality()) }

// Contains reports whether target n has an image.
func (s *Store) Contains(n int) bool {
	return n > 0 && s.keys.Contains(uint32(n))
}

// Shape returns the height and width of target n's image without reading it.
func (s *Store) Shape(n int) (height, width int, err error) {
	_, height, width, err = s.locate(n)
	return height, width, err
}

func (s *Store) locate(n int) (offset int64, height, width int, err error) {
	if !s.Contains(n) {
		return 0, 0, 0, fmt.Errorf("%w: target %d", ErrNotFound, n)
	}
	rec, err := s.table.Get(n)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: target %d", ErrNotFound, n)
	}
	sc := s.table.Schema()
	return int64(rec.Int(sc.StartByte)), rec.Int(sc.RoiHeight), rec.Int(sc.RoiWidth), nil
}

// Open acquires the blob handle until Close. Reads made while the store is
// open share the handle.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.blob != nil {
		return ErrAlreadyOpen
	}
	b, err := s.blobs.Open(ctx, s.name)
	if err != nil {
		return err
	}
	s.blob = b
	return nil
}

// IsOpen reports whether the store holds the blob handle.
func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blob != nil
}

// Close releases the blob handle. Closing a closed store is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.blob == nil {
		return nil
	}
	err := s.blob.Close()
	s.blob = nil
	return err
}

// WithOpen opens s, runs fn and closes s again, also when fn fails or panics.
func WithOpen(ctx context.Context, s *Store, fn func(*Store) error) (err error) {
	if err := s.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// Get reads the image of target n. The image has height rows and width
// columns. If the store is not open, the blob is opened for this read only.
func (s *Store) Get(ctx context.Context, n int) (*image.Gray, error) {
	offset, height, width, err := s.locate(n)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.blob
	if b == nil {
		b, err = s.blobs.Open(ctx, s.name)
		if err != nil {
			return nil, err
		}
		defer b.Close()
	}

	size := b.Size()
	if width > math.MaxInt32 || height > math.MaxInt32 || offset < 0 || offset > size {
		return nil, &TruncatedError{Target: n, Offset: offset, Length: -1, Size: size}
	}
	length := int64(width) * int64(height)
	if length > size-offset {
		return nil, &TruncatedError{Target: n, Offset: offset, Length: length, Size: size}
	}

	pix := make([]byte, length)
	read, err := b.ReadAt(ctx, pix, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("roi: read target %d: %w", n, err)
	}
	if int64(read) < length {
		return nil, &TruncatedError{Target: n, Offset: offset, Length: length, Size: offset + int64(read)}
	}

	return &image.Gray{
		Pix:    pix,
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}
