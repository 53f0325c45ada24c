// Package cache keeps blocks of remote raw files in memory.
//
// Remote stores (S3, MinIO) pay a round trip per ranged read. Bins are read
// target by target, so neighbouring images usually share a block.
//
// LRU is a single-mutex cache. Sharded spreads blocks over 64 LRU shards for
// tools that read many bins concurrently. Both account their memory against
// an optional resource.Controller.
//
// Entries live for the life of the process only.
package cache
