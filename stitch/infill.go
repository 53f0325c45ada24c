package stitch

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Infill estimates the missing pixels of a stitched image.
//
// The missing region is grown by one pixel (4-connected) and the outline of
// the grown region is taken with a 4-connected Laplacian, ignoring the outer
// one-pixel frame of the image. The fill value is the rounded mean of the
// known pixels on that outline, or 0 if there are none. The result is the
// fill value everywhere, masked where m is known.
func Infill(m *Masked) *Masked {
	b := m.Image.Rect
	w, h := b.Dx(), b.Dy()
	missing := m.Missing

	dilated := NewMask(w, h, false)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if missing.At(x, y) || missing.At(x-1, y) || missing.At(x+1, y) || missing.At(x, y-1) || missing.At(x, y+1) {
				dilated.Set(x, y, true)
			}
		}
	}

	var values []float64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if laplacian(dilated, x, y) <= 0 || missing.At(x, y) {
				continue
			}
			values = append(values, float64(m.Image.Pix[y*m.Image.Stride+x]))
		}
	}

	var fill uint8
	if len(values) > 0 {
		fill = uint8(math.RoundToEven(stat.Mean(values, nil)))
	}

	img := image.NewGray(b)
	for i := range img.Pix {
		img.Pix[i] = fill
	}
	return &Masked{Image: img, Missing: missing.Not()}
}

func laplacian(m *Mask, x, y int) int {
	v := 4 * b2i(m.At(x, y))
	v -= b2i(m.At(x-1, y)) + b2i(m.At(x+1, y)) + b2i(m.At(x, y-1)) + b2i(m.At(x, y+1))
	return v
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
