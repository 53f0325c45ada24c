package ifcb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileset_Names(t *testing.T) {
	f := NewFileset(nil, "2016/"+modernLID)

	assert.Equal(t, "2016/"+modernLID+".adc", f.ADCName())
	assert.Equal(t, "2016/"+modernLID+".hdr", f.HDRName())
	assert.Equal(t, "2016/"+modernLID+".roi", f.ROIName())

	p, err := f.PID()
	require.NoError(t, err)
	assert.Equal(t, modernLID, p.BinLID())
	assert.Equal(t, "2016/", p.Namespace())

	_, err = NewFileset(nil, "2016/readme").PID()
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestFileset_ExistsAndSizes(t *testing.T) {
	ctx := context.Background()
	fs := legacyFileset()
	mem, f := memFileset(t, fs, legacyLID)

	ok, err := f.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	sizes, err := f.Sizes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(fs.ADC)), sizes.ADC)
	assert.Equal(t, int64(len(fs.HDR)), sizes.HDR)
	assert.Equal(t, int64(len(fs.ROI)), sizes.ROI)
	assert.Equal(t, int64(len(fs.ADC)+len(fs.HDR)+len(fs.ROI)), sizes.Total())

	require.NoError(t, mem.Delete(ctx, f.HDRName()))
	ok, err = f.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.Sizes(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalFileset(t *testing.T) {
	dir := t.TempDir()
	base, err := legacyFileset().WriteDir(dir, legacyLID)
	require.NoError(t, err)

	f := LocalFileset(base)
	assert.Equal(t, legacyLID, f.Base())

	ok, err := f.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, os.Remove(filepath.Join(dir, legacyLID+".roi")))
	ok, err = f.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
