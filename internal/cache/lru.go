package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/ifcb/resource"
)

// LRU is a BlockCache that evicts the least recently used block once its
// capacity in bytes is reached.
type LRU struct {
	mu       sync.Mutex
	capacity int64
	bytes    int64
	blocks   map[Key]*list.Element
	order    *list.List // front is most recently used
	rc       *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type block struct {
	key  Key
	data []byte
}

// NewLRU creates a cache holding at most capacity bytes. If rc is not nil,
// cached bytes are accounted against its memory limit, and blocks that do
// not fit the limit are not cached.
func NewLRU(capacity int64, rc *resource.Controller) *LRU {
	return &LRU{
		capacity: capacity,
		blocks:   make(map[Key]*list.Element),
		order:    list.New(),
		rc:       rc,
	}
}

// Get returns a cached block and marks it as recently used.
func (c *LRU) Get(_ context.Context, key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.blocks[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.order.MoveToFront(e)
	return e.Value.(*block).data, true
}

// Set caches a block, replacing an existing block with the same key.
// A block larger than the capacity is ignored. Set never blocks on the
// memory limit.
func (c *LRU) Set(_ context.Context, key Key, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := int64(len(data))
	if e, ok := c.blocks[key]; ok {
		b := e.Value.(*block)
		delta := n - int64(len(b.data))
		if delta > 0 && !c.rc.TryAcquireMemory(delta) {
			return
		}
		if delta < 0 {
			c.rc.ReleaseMemory(-delta)
		}
		b.data = data
		c.bytes += delta
		c.order.MoveToFront(e)
		c.shrink(0)
		return
	}

	if n > c.capacity {
		return
	}
	// Make room first so the released memory counts towards the limit.
	c.shrink(n)
	if !c.rc.TryAcquireMemory(n) {
		return
	}
	c.blocks[key] = c.order.PushFront(&block{key: key, data: data})
	c.bytes += n
}

// shrink evicts until room more bytes fit.
func (c *LRU) shrink(room int64) {
	for c.bytes+room > c.capacity {
		e := c.order.Back()
		if e == nil {
			return
		}
		c.remove(e)
	}
}

func (c *LRU) remove(e *list.Element) {
	b := c.order.Remove(e).(*block)
	delete(c.blocks, b.key)
	n := int64(len(b.data))
	c.bytes -= n
	c.rc.ReleaseMemory(n)
}

// Remove drops every block of the named blob.
func (c *LRU) Remove(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.blocks {
		if key.Name == name {
			c.remove(e)
			removed++
		}
	}
	return removed
}

// Stats returns the current counters.
func (c *LRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: int64(len(c.blocks)),
		Bytes:   c.bytes,
	}
}

// Close drops all blocks.
func (c *LRU) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for e := c.order.Back(); e != nil; e = c.order.Back() {
		c.remove(e)
	}
	return nil
}
