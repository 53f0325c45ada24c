package s3

import "github.com/hupe1980/ifcb/resource"

// DownloadConfig configures whole-object downloads.
type DownloadConfig struct {
	// PartSize is the size of each ranged GET.
	// Default: 8MB
	PartSize int64

	// Concurrency is the number of parts fetched in parallel.
	// Default: 5 (matches SDK default)
	Concurrency int
}

// DefaultDownloadConfig returns the default download settings.
func DefaultDownloadConfig() DownloadConfig {
	return DownloadConfig{
		PartSize:    8 * 1024 * 1024,
		Concurrency: 5,
	}
}

// Option configures a Store.
type Option func(*Store)

// WithDownloadConfig overrides the whole-object download settings.
func WithDownloadConfig(cfg DownloadConfig) Option {
	return func(s *Store) {
		s.download = cfg
	}
}

// WithResourceController limits the bandwidth used by the store.
func WithResourceController(rc *resource.Controller) Option {
	return func(s *Store) {
		s.rc = rc
	}
}
