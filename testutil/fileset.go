package testutil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hupe1980/ifcb/blobstore"
	"github.com/hupe1980/ifcb/schema"
)

// Target describes one synthetic ADC row.
type Target struct {
	Trigger   int
	X, Y      int
	Width     int
	Height    int
	StartByte int
}

// FilesetBuilder accumulates targets and serialises them in the raw formats.
type FilesetBuilder struct {
	schema  schema.Schema
	rng     *RNG
	targets []Target
	images  map[int]*image.Gray
	roi     bytes.Buffer
	header  []string
}

// NewFilesetBuilder creates a builder for s whose random pixels are derived
// from seed.
func NewFilesetBuilder(s schema.Schema, seed int64) *FilesetBuilder {
	return &FilesetBuilder{
		schema: s,
		rng:    NewRNG(seed),
		images: make(map[int]*image.Gray),
		header: []string{"softwareVersion: 1.0", "binarizeThreshold: 30"},
	}
}

// Add appends a target with a random width x height image at (x, y).
func (b *FilesetBuilder) Add(trigger, x, y, width, height int) *FilesetBuilder {
	return b.AddImage(trigger, x, y, b.rng.Image(width, height))
}

// AddImage appends a target whose pixels are img.
func (b *FilesetBuilder) AddImage(trigger, x, y int, img *image.Gray) *FilesetBuilder {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	b.targets = append(b.targets, Target{
		Trigger:   trigger,
		X:         x,
		Y:         y,
		Width:     w,
		Height:    h,
		StartByte: b.roi.Len(),
	})
	b.images[len(b.targets)] = img
	for row := range h {
		b.roi.Write(img.Pix[row*img.Stride : row*img.Stride+w])
	}
	return b
}

// AddEmpty appends a target without an image (zero width and height).
func (b *FilesetBuilder) AddEmpty(trigger int) *FilesetBuilder {
	b.targets = append(b.targets, Target{Trigger: trigger, StartByte: b.roi.Len()})
	return b
}

// Header replaces the .hdr lines.
func (b *FilesetBuilder) Header(lines ...string) *FilesetBuilder {
	b.header = lines
	return b
}

// Build serialises everything added so far.
func (b *FilesetBuilder) Build() *Fileset {
	var adcBuf bytes.Buffer
	for i, t := range b.targets {
		row := make([]string, b.schema.NumColumns())
		// Filler columns get distinct values so column mix-ups show in tests.
		for c := range row {
			row[c] = strconv.Itoa((i+1)*100 + c)
		}
		row[b.schema.Trigger] = strconv.Itoa(t.Trigger)
		row[b.schema.RoiX] = strconv.Itoa(t.X)
		row[b.schema.RoiY] = strconv.Itoa(t.Y)
		row[b.schema.RoiWidth] = strconv.Itoa(t.Width)
		row[b.schema.RoiHeight] = strconv.Itoa(t.Height)
		row[b.schema.StartByte] = strconv.Itoa(t.StartByte)
		adcBuf.WriteString(strings.Join(row, ","))
		adcBuf.WriteString("\r\n")
	}

	images := make(map[int]*image.Gray, len(b.images))
	for k, v := range b.images {
		images[k] = v
	}
	return &Fileset{
		Schema:  b.schema,
		Targets: append([]Target(nil), b.targets...),
		Images:  images,
		ADC:     adcBuf.Bytes(),
		ROI:     bytes.Clone(b.roi.Bytes()),
		HDR:     []byte(strings.Join(b.header, "\r\n") + "\r\n"),
	}
}

// Fileset is a built synthetic bin.
type Fileset struct {
	Schema  schema.Schema
	Targets []Target
	// Images maps target numbers to the pixels written for them.
	Images map[int]*image.Gray

	ADC []byte
	ROI []byte
	HDR []byte
}

func (f *Fileset) files(lid string) map[string][]byte {
	return map[string][]byte{
		lid + ".adc": f.ADC,
		lid + ".roi": f.ROI,
		lid + ".hdr": f.HDR,
	}
}

// WriteDir writes <lid>.adc, .roi and .hdr to dir and returns the base path.
func (f *Fileset) WriteDir(dir, lid string) (string, error) {
	for name, data := range f.files(lid) {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
	}
	return filepath.Join(dir, lid), nil
}

// Put stores the three files under lid in store.
func (f *Fileset) Put(ctx context.Context, store *blobstore.MemoryStore, lid string) error {
	for name, data := range f.files(lid) {
		if err := store.Put(ctx, name, data); err != nil {
			return err
		}
	}
	return nil
}
