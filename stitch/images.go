package stitch

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/ifcb/roi"
)

// Images is the final image accessor of a bin. Stitched keys yield the
// stitched image completed by Infill, every other key the raw image.
type Images struct {
	store    *roi.Store
	stitcher *Stitcher
	keys     func() *roaring.Bitmap
}

// NewImages combines store and stitcher. A nil stitcher passes raw images
// through unchanged.
func NewImages(store *roi.Store, stitcher *Stitcher) *Images {
	im := &Images{store: store, stitcher: stitcher}
	im.keys = sync.OnceValue(func() *roaring.Bitmap {
		keys := store.Bitmap()
		if stitcher != nil {
			keys.AndNot(stitcher.index().excluded)
		}
		return keys
	})
	return im
}

// Store returns the raw image store.
func (im *Images) Store() *roi.Store { return im.store }

// Stitcher returns the stitcher, or nil.
func (im *Images) Stitcher() *Stitcher { return im.stitcher }

// Keys returns the targets with a final image, ascending. Second halves of
// stitched pairs are not keys.
func (im *Images) Keys() []int { return toInts(im.keys()) }

// Len returns the number of final images.
func (im *Images) Len() int { return int(im.keys().GetCardinality()) }

// Contains reports whether n has a final image.
func (im *Images) Contains(n int) bool {
	return n > 0 && im.keys().Contains(uint32(n))
}

func (im *Images) stitched(n int) bool {
	return im.stitcher != nil && im.stitcher.Contains(n)
}

// Shape returns the height and width of n's final image without reading
// pixels.
func (im *Images) Shape(n int) (height, width int, err error) {
	if !im.Contains(n) {
		return 0, 0, fmt.Errorf("%w: target %d", ErrNotFound, n)
	}
	if im.stitched(n) {
		return im.stitcher.Shape(n)
	}
	return im.store.Shape(n)
}

// Get returns the final image of n.
func (im *Images) Get(ctx context.Context, n int) (*image.Gray, error) {
	if !im.Contains(n) {
		return nil, fmt.Errorf("%w: target %d", ErrNotFound, n)
	}
	if !im.stitched(n) {
		return im.store.Get(ctx, n)
	}
	st, err := im.stitcher.Get(ctx, n)
	if err != nil {
		return nil, err
	}
	return Compose(st, Infill(st)), nil
}

// Stitched returns the stitched image of n together with its infill.
func (im *Images) Stitched(ctx context.Context, n int) (stitched, infill *Masked, err error) {
	if !im.stitched(n) {
		return nil, nil, fmt.Errorf("%w: target %d is not stitched", ErrNotFound, n)
	}
	stitched, err = im.stitcher.Get(ctx, n)
	if err != nil {
		return nil, nil, err
	}
	return stitched, Infill(stitched), nil
}
