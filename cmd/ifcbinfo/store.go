package main

import (
	"context"
	"fmt"

	"github.com/hupe1980/ifcb/blobstore"
	"github.com/hupe1980/ifcb/blobstore/minio"
	"github.com/hupe1980/ifcb/blobstore/s3"
	"github.com/hupe1980/ifcb/internal/cache"
	"github.com/hupe1980/ifcb/resource"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// source is the configured blob store with its supporting resources.
type source struct {
	store  blobstore.BlobStore
	lister blobstore.Lister
	rc     *resource.Controller
	cache  *cache.Sharded
}

func (s *source) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// openSource builds the store stack described by cfg:
//
//	backend -> caching (remote only) -> decompressing (optional)
func openSource(ctx context.Context, cfg Config) (*source, error) {
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.Limits.MemoryBytes,
		MaxWorkers:         cfg.Limits.Workers,
		IOLimitBytesPerSec: cfg.Limits.IOBytesPerSecond,
	})
	src := &source{rc: rc}

	var backend blobstore.BlobStore
	switch cfg.Store.Kind {
	case StoreLocal:
		local := blobstore.NewLocalStore(cfg.Store.Root)
		backend, src.lister = local, local
	case StoreS3:
		st, err := s3.New(ctx, cfg.Store.Bucket, cfg.Store.Root, s3.WithResourceController(rc))
		if err != nil {
			return nil, err
		}
		backend, src.lister = st, st
	case StoreMinIO:
		client, err := newMinIOClient(cfg.Store)
		if err != nil {
			return nil, err
		}
		st := minio.NewStore(client, cfg.Store.Bucket, cfg.Store.Root)
		backend, src.lister = st, st
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}

	// Local files are memory mapped and gain nothing from a block cache.
	if cfg.Store.Kind != StoreLocal && cfg.Cache.SizeBytes > 0 {
		src.cache = cache.NewSharded(cfg.Cache.SizeBytes, rc)
		backend = blobstore.NewCachingStore(backend, src.cache, cfg.Cache.BlockSize, rc)
	}
	if cfg.Decompress {
		backend = blobstore.NewDecompressingStore(backend)
	}
	src.store = backend
	return src, nil
}

func newMinIOClient(cfg StoreConfig) (*miniogo.Client, error) {
	creds := credentials.NewEnvMinio()
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  creds,
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return client, nil
}
