package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/ifcb/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharded_GetSet(t *testing.T) {
	c := NewSharded(1<<20, nil)
	ctx := context.Background()

	key := Key{Name: "D20160714T023910_IFCB101.roi"}
	c.Set(ctx, key, []byte("pixels"))

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "pixels", string(got))

	_, ok = c.Get(ctx, Key{Name: "D20160714T023910_IFCB101.adc"})
	assert.False(t, ok)
}

func TestSharded_Distribution(t *testing.T) {
	c := NewSharded(64<<20, nil)
	ctx := context.Background()
	data := make([]byte, 1024)

	// One large blob read block by block.
	for i := range 256 {
		c.Set(ctx, Key{"bin.roi", int64(i)}, data)
	}

	nonEmpty := 0
	for _, s := range c.ShardStats() {
		if s.Entries > 0 {
			nonEmpty++
		}
	}
	assert.Equal(t, numShards, nonEmpty, "consecutive blocks spread over all shards")
	assert.Equal(t, int64(256), c.Stats().Entries)
}

func TestSharded_Concurrent(t *testing.T) {
	c := NewSharded(64<<20, nil)
	ctx := context.Background()
	data := make([]byte, 1024)

	const workers = 50
	const blocks = 500

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("bin%d.roi", w)
			for i := range blocks {
				c.Set(ctx, Key{name, int64(i)}, data)
				c.Get(ctx, Key{name, int64(i)})
			}
		}()
	}
	wg.Wait()

	s := c.Stats()
	assert.Equal(t, int64(workers*blocks), s.Hits+s.Misses)
}

func TestSharded_RemoveAndClose(t *testing.T) {
	rc := resource.NewController(resource.Config{})
	c := NewSharded(64<<20, rc)
	ctx := context.Background()

	for i := range 100 {
		c.Set(ctx, Key{"a.roi", int64(i)}, []byte("a"))
		c.Set(ctx, Key{"b.roi", int64(i)}, []byte("b"))
	}

	assert.Equal(t, 100, c.Remove("a.roi"))
	_, ok := c.Get(ctx, Key{"a.roi", 0})
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key{"b.roi", 0})
	assert.True(t, ok)
	assert.Equal(t, int64(100), c.Stats().Bytes)

	require.NoError(t, c.Close())
	assert.Zero(t, rc.MemoryUsage())
}

func BenchmarkSharded_Get(b *testing.B) {
	c := NewSharded(64<<20, nil)
	ctx := context.Background()
	key := Key{Name: "bench.roi"}
	c.Set(ctx, key, make([]byte, 4096))

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Get(ctx, key)
		}
	})
}
