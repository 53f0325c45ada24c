package stitch

import (
	"bytes"
	"context"
	"image"
	"testing"

	"github.com/hupe1980/ifcb/adc"
	"github.com/hupe1980/ifcb/blobstore"
	"github.com/hupe1980/ifcb/roi"
	"github.com/hupe1980/ifcb/schema"
	"github.com/hupe1980/ifcb/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lid = "IFCB5_2010_100_120000"

func build(t *testing.T, b *testutil.FilesetBuilder) (*testutil.Fileset, *roi.Store) {
	t.Helper()
	fs := b.Build()
	table, err := adc.Parse(bytes.NewReader(fs.ADC), fs.Schema)
	require.NoError(t, err)
	mem := blobstore.NewMemoryStore()
	require.NoError(t, fs.Put(context.Background(), mem, lid))
	return fs, roi.FromTable(table, mem, lid+".roi")
}

// legacyBin mirrors a first generation bin: seven targets, six images and
// one split pair (3, 4).
func legacyBin(t *testing.T) (*testutil.Fileset, *roi.Store) {
	return build(t, testutil.NewFilesetBuilder(schema.V1, 4711).
		Add(1, 0, 0, 10, 10).
		Add(2, 50, 50, 8, 6).
		Add(3, 10, 10, 20, 10).
		Add(3, 12, 14, 20, 12).
		Add(4, 100, 0, 5, 5).
		Add(5, 0, 100, 7, 3).
		AddEmpty(6))
}

func TestStitcher_Pairs(t *testing.T) {
	_, store := legacyBin(t)
	s := New(store.Table(), store)

	assert.Equal(t, []int{3}, s.Keys())
	assert.Equal(t, []int{4}, s.Excluded())
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(4))
	assert.Equal(t, DefaultThreshold, s.Threshold())

	p, ok := s.Pair(3)
	require.True(t, ok)
	assert.Equal(t, 4, p.Partner)
	assert.Equal(t, image.Rect(10, 10, 32, 26), p.Union)

	h, w, err := s.Shape(3)
	require.NoError(t, err)
	assert.Equal(t, 16, h)
	assert.Equal(t, 22, w)

	_, _, err = s.Shape(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStitcher_SkipsEmptyRows(t *testing.T) {
	_, store := build(t, testutil.NewFilesetBuilder(schema.V1, 1).
		Add(1, 0, 0, 4, 4).
		Add(2, 10, 10, 20, 10).
		AddEmpty(2).
		Add(2, 12, 14, 20, 12))
	s := New(store.Table(), store)

	assert.Equal(t, []int{2}, s.Keys())
	assert.Equal(t, []int{4}, s.Excluded(), "partner is the next row with an image")
}

func TestStitcher_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		builder   *testutil.FilesetBuilder
		opts      []Option
		wantPairs int
	}{
		{
			name: "different trigger",
			builder: testutil.NewFilesetBuilder(schema.V1, 1).
				Add(1, 0, 0, 10, 10).
				Add(2, 2, 2, 10, 10),
		},
		{
			name: "overlap at threshold",
			builder: testutil.NewFilesetBuilder(schema.V1, 1).
				Add(1, 0, 0, 10, 10).
				Add(1, 8, 0, 10, 10),
		},
		{
			name: "overlap at threshold, zero threshold",
			builder: testutil.NewFilesetBuilder(schema.V1, 1).
				Add(1, 0, 0, 10, 10).
				Add(1, 8, 0, 10, 10),
			opts:      []Option{WithThreshold(0)},
			wantPairs: 1,
		},
		{
			name: "disjoint",
			builder: testutil.NewFilesetBuilder(schema.V1, 1).
				Add(1, 0, 0, 10, 10).
				Add(1, 0, 20, 10, 10),
		},
		{
			name: "last row unpaired",
			builder: testutil.NewFilesetBuilder(schema.V1, 1).
				Add(1, 0, 0, 10, 10),
		},
		{
			name: "second half without height",
			builder: testutil.NewFilesetBuilder(schema.V1, 1).
				Add(1, 0, 0, 10, 10).
				Add(1, 0, 5, 10, 0),
		},
		{
			name: "first half without height",
			builder: testutil.NewFilesetBuilder(schema.V1, 1).
				Add(1, 0, 0, 10, 0).
				Add(1, 0, 5, 10, 10),
		},
		{
			name:    "empty bin",
			builder: testutil.NewFilesetBuilder(schema.V1, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, store := build(t, tt.builder)
			s := New(store.Table(), store, tt.opts...)
			assert.Equal(t, tt.wantPairs, s.Len())
			assert.Len(t, s.Excluded(), tt.wantPairs)
		})
	}
}

func TestStitcher_Get(t *testing.T) {
	fs, store := legacyBin(t)
	s := New(store.Table(), store)
	ctx := context.Background()

	m, err := s.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 22, 16), m.Bounds())

	a, b := fs.Images[3], fs.Images[4]
	// Only A covers (0,0) relative to the union; only B covers the bottom right.
	assert.Equal(t, a.GrayAt(0, 0), m.Image.GrayAt(0, 0))
	assert.Equal(t, b.GrayAt(19, 11), m.Image.GrayAt(21, 15))
	// B is written last and wins in the overlap.
	assert.Equal(t, b.GrayAt(0, 0), m.Image.GrayAt(2, 4))

	assert.Equal(t, 20, m.Missing.Count())
	assert.True(t, m.Missing.At(21, 0))
	assert.True(t, m.Missing.At(0, 15))
	assert.False(t, m.Missing.At(2, 4))
	assert.Equal(t, uint8(0), m.Image.GrayAt(21, 0).Y)

	_, err = s.Get(ctx, 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStitcher_GetFailsOnMissingBlob(t *testing.T) {
	_, store := legacyBin(t)
	broken := roi.FromTable(store.Table(), blobstore.NewMemoryStore(), lid+".roi")
	s := New(broken.Table(), broken)

	_, err := s.Get(context.Background(), 3)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
