package cache

import "context"

// Key identifies one block of one blob.
type Key struct {
	// Name is the blob name, for example "D20160714T023910_IFCB101.roi".
	Name string
	// Block is the block index within the blob.
	Block int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int64
	Bytes   int64
}

// HitRatio returns Hits / (Hits + Misses), or 0 before the first lookup.
func (s Stats) HitRatio() float64 {
	if n := s.Hits + s.Misses; n > 0 {
		return float64(s.Hits) / float64(n)
	}
	return 0
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Hits:    s.Hits + o.Hits,
		Misses:  s.Misses + o.Misses,
		Entries: s.Entries + o.Entries,
		Bytes:   s.Bytes + o.Bytes,
	}
}

// BlockCache holds immutable blocks of remote blobs.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok is false if it is missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches a block. The cache retains b; callers must not modify it.
	Set(ctx context.Context, key Key, b []byte)
	// Remove drops every block of the named blob and returns how many
	// were dropped.
	Remove(name string) int
	// Stats returns the current counters.
	Stats() Stats
	// Close drops all blocks and releases their memory.
	Close() error
}
