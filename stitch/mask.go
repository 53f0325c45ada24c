package stitch

import (
	"image"

	"github.com/bits-and-blooms/bitset"
)

// Mask is a per-pixel boolean plane over a width x height rectangle with its
// origin at (0, 0).
type Mask struct {
	width, height int
	bits          *bitset.BitSet
}

// NewMask returns a mask with every position set to v.
func NewMask(width, height int, v bool) *Mask {
	m := &Mask{width: width, height: height, bits: bitset.New(uint(width * height))}
	if v && width*height > 0 {
		m.bits.FlipRange(0, uint(width*height))
	}
	return m
}

// Bounds returns the rectangle the mask covers.
func (m *Mask) Bounds() image.Rectangle { return image.Rect(0, 0, m.width, m.height) }

func (m *Mask) index(x, y int) uint { return uint(y*m.width + x) }

// At reports whether (x, y) is set. Positions outside the mask are unset.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.bits.Test(m.index(x, y))
}

// Set sets (x, y) to v.
func (m *Mask) Set(x, y int, v bool) {
	m.bits.SetTo(m.index(x, y), v)
}

// SetRect sets every position of r, clipped to the mask, to v.
func (m *Mask) SetRect(r image.Rectangle, v bool) {
	r = r.Intersect(m.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := m.index(r.Min.X, y)
		end := m.index(r.Max.X, y)
		for i := start; i < end; i++ {
			m.bits.SetTo(i, v)
		}
	}
}

// Count returns the number of set positions.
func (m *Mask) Count() int { return int(m.bits.Count()) }

// Not returns the complement of m.
func (m *Mask) Not() *Mask {
	return &Mask{width: m.width, height: m.height, bits: m.bits.Complement()}
}

// Clone returns an independent copy of m.
func (m *Mask) Clone() *Mask {
	return &Mask{width: m.width, height: m.height, bits: m.bits.Clone()}
}

// Masked is an image with a mask of missing pixels.
type Masked struct {
	Image   *image.Gray
	Missing *Mask
}

// Bounds returns the image rectangle.
func (m *Masked) Bounds() image.Rectangle { return m.Image.Rect }

// Filled returns a copy of the image with every missing pixel set to v.
func (m *Masked) Filled(v uint8) *image.Gray {
	b := m.Image.Rect
	out := image.NewGray(b)
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w], m.Image.Pix[y*m.Image.Stride:])
		for x := 0; x < w; x++ {
			if m.Missing.At(x, y) {
				out.Pix[y*out.Stride+x] = v
			}
		}
	}
	return out
}

// Compose adds the known pixels of both images. With complementary masks
// every position comes from exactly one of them.
func Compose(a, b *Masked) *image.Gray {
	out := a.Filled(0)
	fb := b.Filled(0)
	for i := range out.Pix {
		out.Pix[i] += fb.Pix[i]
	}
	return out
}
