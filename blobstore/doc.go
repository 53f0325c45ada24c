// Package blobstore provides read access to the files of a bin.
//
// A bin is stored as three blobs (.adc, .hdr and .roi) named after its
// identifier. BlobStore hides where they live; every implementation is safe
// for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory mapped
//   - MemoryStore: in-memory, for tests and generated data
//   - CachingStore: block cache in front of a slow store
//   - DecompressingStore: transparent .zst / .lz4 archives
//   - s3.Store: Amazon S3 with range reads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	}
//
// Remote backends implement ReadRange for efficient partial reads:
//
//	type Blob interface {
//	    ReadAt(ctx, p, off) (int, error)
//	    io.Closer
//	    Size() int64
//	    ReadRange(ctx, off, len) (io.ReadCloser, error)
//	}
package blobstore
