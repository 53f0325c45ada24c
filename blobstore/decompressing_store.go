package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the codec of a compressed blob by its name suffix.
type Compression struct {
	Suffix string
	decode func(src []byte) ([]byte, error)
}

// Zstd decodes blobs stored as "<name>.zst".
var Zstd = Compression{Suffix: ".zst", decode: decodeZstd}

// LZ4 decodes blobs stored as "<name>.lz4" in the LZ4 frame format.
var LZ4 = Compression{Suffix: ".lz4", decode: decodeLZ4}

var zstdDecoderPool sync.Pool

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

func decodeZstd(src []byte) ([]byte, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, err
	}
	defer zstdDecoderPool.Put(dec)
	return dec.DecodeAll(src, nil)
}

func decodeLZ4(src []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
}

// DecompressingStore serves blobs that are archived compressed.
//
// Open first tries the plain name in the inner store. If it does not exist,
// each configured compression is tried in order and the first compressed
// variant found is decoded into memory. Raw files compress well, and image
// blobs need random access, so the decoded bytes are held for the life of
// the returned Blob.
type DecompressingStore struct {
	inner        BlobStore
	compressions []Compression
}

// NewDecompressingStore wraps inner. With no compressions given, Zstd and LZ4
// are tried in that order.
func NewDecompressingStore(inner BlobStore, compressions ...Compression) *DecompressingStore {
	if len(compressions) == 0 {
		compressions = []Compression{Zstd, LZ4}
	}
	return &DecompressingStore{inner: inner, compressions: compressions}
}

// Open opens name, decompressing a compressed variant if needed.
func (s *DecompressingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	for _, c := range s.compressions {
		cb, cerr := s.inner.Open(ctx, name+c.Suffix)
		if errors.Is(cerr, ErrNotFound) {
			continue
		}
		if cerr != nil {
			return nil, cerr
		}
		data, derr := decodeBlob(ctx, cb, c)
		if derr != nil {
			return nil, fmt.Errorf("blobstore: decompress %s: %w", name+c.Suffix, derr)
		}
		return newMemoryBlob(data), nil
	}
	return nil, err
}

func decodeBlob(ctx context.Context, b Blob, c Compression) ([]byte, error) {
	defer b.Close()
	src, err := ReadAll(ctx, b)
	if err != nil {
		return nil, err
	}
	return c.decode(src)
}
