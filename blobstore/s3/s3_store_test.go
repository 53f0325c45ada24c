package s3

import (
	"context"
	"os"
	"testing"

	"github.com/hupe1980/ifcb/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegration_S3Store reads an existing bin. It needs S3_BUCKET and
// S3_IFCB_BIN (a bin name such as "D20160714T023910_IFCB101") and optionally
// S3_PREFIX.
func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	bin := os.Getenv("S3_IFCB_BIN")
	if bucket == "" || bin == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET or S3_IFCB_BIN not set")
	}

	ctx := context.Background()
	store, err := New(ctx, bucket, os.Getenv("S3_PREFIX"))
	require.NoError(t, err)

	t.Run("Open and Read", func(t *testing.T) {
		names, err := store.List(ctx, bin)
		require.NoError(t, err)
		assert.Contains(t, names, bin+".adc")

		r, err := store.Open(ctx, bin+".adc")
		require.NoError(t, err)
		defer r.Close()
		require.Positive(t, r.Size())

		all, err := blobstore.ReadAll(ctx, r)
		require.NoError(t, err)
		require.Len(t, all, int(r.Size()))

		buf := make([]byte, min(100, len(all)))
		n, err := r.ReadAt(ctx, buf, 0)
		require.NoError(t, err)
		assert.Equal(t, all[:n], buf[:n])
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "nonexistent")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
