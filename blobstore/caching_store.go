package blobstore

import (
	"context"
	"errors"
	"io"

	"github.com/hupe1980/ifcb/internal/cache"
	"github.com/hupe1980/ifcb/resource"
	"golang.org/x/sync/errgroup"
)

// CachingStore wraps a BlobStore and adds block-level caching.
//
// Remote reads of small regions (one target's image) are widened to whole
// blocks and kept in the cache, so neighbouring targets are served from
// memory.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
	rc        *resource.Controller
}

// NewCachingStore creates a new CachingStore.
// blockSize defaults to 64KB if <= 0. rc, if not nil, rate-limits the bytes
// fetched from inner.
func NewCachingStore(inner BlobStore, c cache.BlockCache, blockSize int64, rc *resource.Controller) *CachingStore {
	if blockSize <= 0 {
		blockSize = 64 << 10
	}
	return &CachingStore{
		inner:     inner,
		cache:     c,
		blockSize: blockSize,
		rc:        rc,
	}
}

// Open opens name in the inner store and wraps it with the block cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &CachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
		rc:        s.rc,
	}, nil
}

// CachingBlob wraps a Blob and uses the block cache for reads.
type CachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
	rc        *resource.Controller
}

func (b *CachingBlob) Close() error {
	return b.inner.Close()
}

func (b *CachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *CachingBlob) key(blk int64) cache.Key {
	return cache.Key{Name: b.name, Block: blk}
}

func (b *CachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off < 0 || off >= size {
		return 0, io.EOF
	}

	// Only the part inside the blob is fetched; the rest is reported as EOF.
	want := p
	if off+int64(len(p)) > size {
		want = p[:size-off]
	}

	startBlock := off / b.blockSize
	endBlock := (off + int64(len(want)) - 1) / b.blockSize

	if err := b.fillCache(ctx, startBlock, endBlock); err != nil {
		return 0, err
	}

	totalRead := 0
	for blk := startBlock; blk <= endBlock; blk++ {
		blkStart := blk * b.blockSize

		// Intersection of [blkStart, blkStart+blockSize) and the request.
		intersectStart := max(blkStart, off)
		intersectEnd := min(blkStart+b.blockSize, off+int64(len(want)))
		if intersectEnd <= intersectStart {
			continue
		}

		blockData, err := b.fetchBlock(ctx, blk)
		if err != nil {
			return totalRead, err
		}

		srcOffset := intersectStart - blkStart
		dstOffset := intersectStart - off
		copySize := min(intersectEnd-intersectStart, int64(len(blockData))-srcOffset)
		if copySize > 0 {
			totalRead += copy(want[dstOffset:dstOffset+copySize], blockData[srcOffset:])
		}
	}

	if totalRead < len(p) {
		return totalRead, io.EOF
	}
	return totalRead, nil
}

// fillCache ensures that the blocks in the given range are loaded into the cache.
// It fetches contiguous runs of missing blocks in single backend requests.
func (b *CachingBlob) fillCache(ctx context.Context, startBlock, endBlock int64) error {
	type run struct{ start, count int64 }
	var missingRuns []run

	runStart := int64(-1)
	runCount := int64(0)
	for blk := startBlock; blk <= endBlock; blk++ {
		if _, ok := b.cache.Get(ctx, b.key(blk)); !ok {
			if runStart == -1 {
				runStart = blk
				runCount = 1
			} else {
				runCount++
			}
			continue
		}
		if runStart != -1 {
			missingRuns = append(missingRuns, run{runStart, runCount})
			runStart = -1
			runCount = 0
		}
	}
	if runStart != -1 {
		missingRuns = append(missingRuns, run{runStart, runCount})
	}

	g, ctx := errgroup.WithContext(ctx)
	// Limit concurrency to avoid FD exhaustion or rate limits
	g.SetLimit(16)

	for _, r := range missingRuns {
		g.Go(func() error {
			byteStart := r.start * b.blockSize
			byteSize := r.count * b.blockSize

			fileSize := b.Size()
			if byteStart >= fileSize {
				return nil
			}
			if byteStart+byteSize > fileSize {
				byteSize = fileSize - byteStart
			}

			if err := b.rc.AcquireIO(ctx, int(byteSize)); err != nil {
				return err
			}

			buf := make([]byte, byteSize)
			n, err := b.inner.ReadAt(ctx, buf, byteStart)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			validData := buf[:n]

			for i := int64(0); i < r.count; i++ {
				offsetInRun := i * b.blockSize
				if offsetInRun >= int64(len(validData)) {
					break
				}
				endInRun := min(offsetInRun+b.blockSize, int64(len(validData)))

				// Copy so a cached block does not pin the whole run buffer.
				blockCopy := make([]byte, endInRun-offsetInRun)
				copy(blockCopy, validData[offsetInRun:endInRun])
				b.cache.Set(ctx, b.key(r.start+i), blockCopy)
			}
			return nil
		})
	}
	return g.Wait()
}

// fetchBlock returns a block from the cache, reading it from the inner blob if
// it was evicted since fillCache.
func (b *CachingBlob) fetchBlock(ctx context.Context, blkIdx int64) ([]byte, error) {
	key := b.key(blkIdx)
	if data, ok := b.cache.Get(ctx, key); ok {
		return data, nil
	}

	offset := blkIdx * b.blockSize
	length := min(b.blockSize, b.Size()-offset)
	if length <= 0 {
		return nil, nil
	}
	if err := b.rc.AcquireIO(ctx, int(length)); err != nil {
		return nil, err
	}

	buf := make([]byte, length)
	n, err := b.inner.ReadAt(ctx, buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	validData := buf[:n]
	if n > 0 {
		b.cache.Set(ctx, key, validData)
	}
	return validData, nil
}

// ReadRange returns a reader that serves [off, off+length) through the cache.
func (b *CachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if off < 0 || off >= b.Size() {
		return nil, io.EOF
	}
	end := min(off+length, b.Size())
	return io.NopCloser(&sectionReader{blob: b, ctx: ctx, off: off, limit: end}), nil
}
