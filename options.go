package ifcb

import (
	"io"
	"log/slog"

	"github.com/hupe1980/ifcb/adc"
	"github.com/hupe1980/ifcb/hdr"
	"github.com/hupe1980/ifcb/stitch"
)

// HeaderParser turns the content of a .hdr file into a header mapping.
type HeaderParser func(r io.Reader) (hdr.Header, error)

type options struct {
	fieldPolicy      adc.FieldPolicy
	stitchThreshold  int
	stitching        *bool
	headerParser     HeaderParser
	imagesOpen       bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Open.
type Option func(*options)

// WithFieldPolicy sets how records with the wrong number of fields are
// handled. The default is adc.FieldsStrict.
func WithFieldPolicy(p adc.FieldPolicy) Option {
	return func(o *options) {
		o.fieldPolicy = p
	}
}

// WithStitchThreshold sets the overlap in pixels two boxes must exceed to be
// stitched. The default is stitch.DefaultThreshold.
func WithStitchThreshold(t int) Option {
	return func(o *options) {
		o.stitchThreshold = t
	}
}

// WithStitching forces stitching of split images on or off.
//
// By default only v1 bins are stitched. Later instruments never split a
// target across two rows.
func WithStitching(enabled bool) Option {
	return func(o *options) {
		o.stitching = &enabled
	}
}

// WithHeaderParser replaces the .hdr reader. If nil is passed, hdr.Parse is
// used.
func WithHeaderParser(p HeaderParser) Option {
	return func(o *options) {
		if p == nil {
			p = hdr.Parse
		}
		o.headerParser = p
	}
}

// WithImagesOpen keeps the .roi blob open from Open until Close instead of
// opening it for every image read.
func WithImagesOpen() Option {
	return func(o *options) {
		o.imagesOpen = true
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &ifcb.BasicMetricsCollector{}
//	bin, _ := ifcb.Open(ctx, fs, ifcb.WithMetricsCollector(metrics))
//	// ... read images ...
//	stats := metrics.GetStats()
//	fmt.Printf("Reads: %d, Avg latency: %dns\n", stats.ReadCount, stats.ReadAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := ifcb.NewJSONLogger(slog.LevelInfo)
//	bin, _ := ifcb.Open(ctx, fs, ifcb.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		fieldPolicy:      adc.FieldsStrict,
		stitchThreshold:  stitch.DefaultThreshold,
		headerParser:     hdr.Parse,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) stitch(version int) bool {
	if o.stitching != nil {
		return *o.stitching
	}
	return version == 1
}
