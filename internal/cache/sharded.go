package cache

import (
	"context"
	"errors"
	"hash/maphash"

	"github.com/hupe1980/ifcb/resource"
)

const numShards = 64

// Sharded spreads blocks over 64 LRU shards so concurrent readers of
// different bins rarely contend on the same lock.
type Sharded struct {
	shards [numShards]*LRU
	seed   maphash.Seed
}

// NewSharded creates a sharded cache. Each shard holds capacity/64 bytes.
func NewSharded(capacity int64, rc *resource.Controller) *Sharded {
	s := &Sharded{seed: maphash.MakeSeed()}
	perShard := max(capacity/numShards, 1)
	for i := range s.shards {
		s.shards[i] = NewLRU(perShard, rc)
	}
	return s
}

func (s *Sharded) shard(key Key) *LRU {
	var h maphash.Hash
	h.SetSeed(s.seed)
	_, _ = h.WriteString(key.Name)
	// Consecutive blocks of one blob land in different shards.
	return s.shards[(h.Sum64()+uint64(key.Block))%numShards]
}

// Get returns a cached block.
func (s *Sharded) Get(ctx context.Context, key Key) ([]byte, bool) {
	return s.shard(key).Get(ctx, key)
}

// Set caches a block.
func (s *Sharded) Set(ctx context.Context, key Key, b []byte) {
	s.shard(key).Set(ctx, key, b)
}

// Remove drops every block of the named blob from all shards.
func (s *Sharded) Remove(name string) int {
	removed := 0
	for _, sh := range s.shards {
		removed += sh.Remove(name)
	}
	return removed
}

// Stats returns the counters summed over all shards.
func (s *Sharded) Stats() Stats {
	var total Stats
	for _, sh := range s.shards {
		total = total.add(sh.Stats())
	}
	return total
}

// ShardStats returns the counters of each shard.
func (s *Sharded) ShardStats() []Stats {
	out := make([]Stats, numShards)
	for i, sh := range s.shards {
		out[i] = sh.Stats()
	}
	return out
}

// Close closes all shards.
func (s *Sharded) Close() error {
	var errs []error
	for _, sh := range s.shards {
		errs = append(errs, sh.Close())
	}
	return errors.Join(errs...)
}
