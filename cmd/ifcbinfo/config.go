package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreLocal = "local"
	StoreS3    = "s3"
	StoreMinIO = "minio"
)

// Config describes where filesets live and how they are read.
type Config struct {
	// Store selects and configures the blob store holding the raw files.
	Store StoreConfig `yaml:"store"`

	// Cache configures the in-memory block cache for remote stores.
	Cache CacheConfig `yaml:"cache"`

	// Limits bounds memory, concurrency and remote read throughput.
	Limits LimitsConfig `yaml:"limits"`

	// Decompress enables reading .zst and .lz4 compressed raw files.
	Decompress bool `yaml:"decompress"`

	// Stitching is "auto" (v1 bins only), "on" or "off".
	Stitching string `yaml:"stitching"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// StoreConfig configures the blob store.
type StoreConfig struct {
	// Kind is local, s3 or minio.
	Kind string `yaml:"kind"`

	// Root is the directory (local) or key prefix (s3, minio) holding the
	// filesets.
	Root string `yaml:"root"`

	// Bucket is the bucket name for s3 and minio.
	Bucket string `yaml:"bucket"`

	// Endpoint is the host:port of a MinIO server.
	Endpoint string `yaml:"endpoint"`

	// Secure selects HTTPS for MinIO.
	Secure bool `yaml:"secure"`

	// AccessKey and SecretKey are MinIO credentials. If empty, the
	// MINIO_ACCESS_KEY and MINIO_SECRET_KEY environment variables are used.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// CacheConfig configures the block cache.
type CacheConfig struct {
	// SizeBytes is the cache capacity. 0 disables the cache.
	SizeBytes int64 `yaml:"size_bytes"`

	// BlockSize is the unit of remote reads. 0 uses the store default.
	BlockSize int64 `yaml:"block_size"`
}

// LimitsConfig configures the resource controller.
type LimitsConfig struct {
	MemoryBytes      int64 `yaml:"memory_bytes"`
	IOBytesPerSecond int64 `yaml:"io_bytes_per_second"`
	Workers          int64 `yaml:"workers"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Kind:   StoreLocal,
			Root:   ".",
			Secure: true,
		},
		Cache: CacheConfig{
			SizeBytes: 64 << 20,
		},
		Limits: LimitsConfig{
			Workers: 4,
		},
		Stitching: "auto",
		LogLevel:  "warn",
	}
}

// LoadConfig reads a YAML config file. Fields missing from the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Kind {
	case StoreLocal:
	case StoreS3, StoreMinIO:
		if c.Store.Bucket == "" {
			errs = append(errs, fmt.Errorf("store.bucket is required for %s", c.Store.Kind))
		}
		if c.Store.Kind == StoreMinIO && c.Store.Endpoint == "" {
			errs = append(errs, errors.New("store.endpoint is required for minio"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.kind %q", c.Store.Kind))
	}
	switch c.Stitching {
	case "auto", "on", "off":
	default:
		errs = append(errs, fmt.Errorf("unknown stitching mode %q", c.Stitching))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Cache.SizeBytes < 0 || c.Cache.BlockSize < 0 {
		errs = append(errs, errors.New("cache sizes must not be negative"))
	}
	if c.Limits.MemoryBytes < 0 || c.Limits.IOBytesPerSecond < 0 || c.Limits.Workers < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	return errors.Join(errs...)
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}
