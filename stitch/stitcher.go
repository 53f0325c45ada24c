package stitch

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/ifcb/adc"
	"github.com/hupe1980/ifcb/roi"
)

// ErrNotFound is returned for targets that are not stitched.
var ErrNotFound = roi.ErrNotFound

// ImageSource reads raw target images. *roi.Store implements it.
type ImageSource interface {
	Get(ctx context.Context, n int) (*image.Gray, error)
}

// Pair is an accepted split pair. A and B are the boxes of the two halves and
// Union their bounding box, all in instrument coordinates.
type Pair struct {
	Key     int
	Partner int
	A, B    image.Rectangle
	Union   image.Rectangle
}

type pairIndex struct {
	pairs    map[int]Pair
	keys     *roaring.Bitmap
	excluded *roaring.Bitmap
}

// Stitcher detects split pairs in a record table and composes their images.
type Stitcher struct {
	table     *adc.Table
	images    ImageSource
	threshold int
	index     func() pairIndex
}

// New creates a Stitcher. Pairs are detected on first use.
func New(table *adc.Table, images ImageSource, optFns ...Option) *Stitcher {
	o := options{threshold: DefaultThreshold}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	s := &Stitcher{
		table:     table,
		images:    images,
		threshold: o.threshold,
	}
	s.index = sync.OnceValue(s.detect)
	return s
}

type box struct {
	target  int
	trigger int
	rect    image.Rectangle
}

func (s *Stitcher) detect() pairIndex {
	sc := s.table.Schema()
	var boxes []box
	for n, rec := range s.table.All() {
		w := rec.Int(sc.RoiWidth)
		if w == 0 {
			continue
		}
		x, y := rec.Int(sc.RoiX), rec.Int(sc.RoiY)
		boxes = append(boxes, box{
			target:  n,
			trigger: rec.Int(sc.Trigger),
			rect:    image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+w, y+rec.Int(sc.RoiHeight))},
		})
	}

	idx := pairIndex{
		pairs:    make(map[int]Pair),
		keys:     roaring.New(),
		excluded: roaring.New(),
	}
	t := s.threshold
	for i := 0; i+1 < len(boxes); i++ {
		a, b := boxes[i], boxes[i+1]
		// Both halves must have an image.
		if a.trigger != b.trigger || a.rect.Empty() || b.rect.Empty() {
			continue
		}
		ra, rb := a.rect, b.rect
		if ra.Min.X < rb.Max.X-t && ra.Max.X > rb.Min.X+t &&
			ra.Min.Y < rb.Max.Y-t && ra.Max.Y > rb.Min.Y+t {
			idx.pairs[a.target] = Pair{Key: a.target, Partner: b.target, A: ra, B: rb, Union: ra.Union(rb)}
			idx.keys.Add(uint32(a.target))
			idx.excluded.Add(uint32(b.target))
		}
	}
	return idx
}

// Threshold returns the overlap threshold in pixels.
func (s *Stitcher) Threshold() int { return s.threshold }

// Keys returns the first target of every stitched pair, ascending.
func (s *Stitcher) Keys() []int { return toInts(s.index().keys) }

// Excluded returns the second target of every stitched pair, ascending.
func (s *Stitcher) Excluded() []int { return toInts(s.index().excluded) }

// ExcludedBitmap returns a copy of the excluded set.
func (s *Stitcher) ExcludedBitmap() *roaring.Bitmap { return s.index().excluded.Clone() }

// Len returns the number of stitched pairs.
func (s *Stitcher) Len() int { return len(s.index().pairs) }

// Contains reports whether n is a stitched key.
func (s *Stitcher) Contains(n int) bool {
	_, ok := s.index().pairs[n]
	return ok
}

// Pair returns the pair keyed by n.
func (s *Stitcher) Pair(n int) (Pair, bool) {
	p, ok := s.index().pairs[n]
	return p, ok
}

// Shape returns the height and width of the stitched image of n.
func (s *Stitcher) Shape(n int) (height, width int, err error) {
	p, ok := s.Pair(n)
	if !ok {
		return 0, 0, fmt.Errorf("%w: target %d is not stitched", ErrNotFound, n)
	}
	return p.Union.Dy(), p.Union.Dx(), nil
}

// Get composes the stitched image of n. Pixels of the second half are written
// after the first, so they win where the halves overlap. The mask marks
// positions covered by neither.
func (s *Stitcher) Get(ctx context.Context, n int) (*Masked, error) {
	p, ok := s.Pair(n)
	if !ok {
		return nil, fmt.Errorf("%w: target %d is not stitched", ErrNotFound, n)
	}

	halves := [2]struct {
		target int
		rect   image.Rectangle
		img    *image.Gray
	}{{target: p.Key, rect: p.A}, {target: p.Partner, rect: p.B}}
	for i := range halves {
		h := &halves[i]
		img, err := s.images.Get(ctx, h.target)
		if err != nil {
			return nil, fmt.Errorf("stitch %d: %w", n, err)
		}
		if img.Rect.Dx() != h.rect.Dx() || img.Rect.Dy() != h.rect.Dy() {
			return nil, fmt.Errorf("stitch %d: image of target %d is %v, box is %v", n, h.target, img.Rect.Size(), h.rect.Size())
		}
		h.img = img
	}

	origin := p.Union.Min
	out := &Masked{
		Image:   image.NewGray(p.Union.Sub(origin)),
		Missing: NewMask(p.Union.Dx(), p.Union.Dy(), true),
	}
	for _, h := range halves {
		dst := h.rect.Sub(origin)
		for y := 0; y < dst.Dy(); y++ {
			row := h.img.Pix[y*h.img.Stride : y*h.img.Stride+dst.Dx()]
			off := out.Image.PixOffset(dst.Min.X, dst.Min.Y+y)
			copy(out.Image.Pix[off:off+dst.Dx()], row)
		}
		out.Missing.SetRect(dst, false)
	}
	return out, nil
}

func toInts(b *roaring.Bitmap) []int {
	out := make([]int, 0, b.GetCardinality())
	it := b.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}
