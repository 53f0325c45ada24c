package ifcb

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"maps"
	"sync/atomic"
	"time"

	"github.com/hupe1980/ifcb/adc"
	"github.com/hupe1980/ifcb/hdr"
	"github.com/hupe1980/ifcb/pid"
	"github.com/hupe1980/ifcb/roi"
	"github.com/hupe1980/ifcb/schema"
	"github.com/hupe1980/ifcb/stitch"
)

// Bin is one opened acquisition: identifier, schema, record table, header
// and image accessors.
//
// A Bin is immutable. Its only resource is the .roi blob handle, released by
// Close. As a keyed collection it yields each target's record.
type Bin struct {
	fileset  *Fileset
	pid      pid.PID
	schema   schema.Schema
	table    *adc.Table
	headers  hdr.Header
	images   *roi.Store
	stitcher *stitch.Stitcher
	final    *stitch.Images

	logger  *Logger
	metrics MetricsCollector
	closed  atomic.Bool
}

// Open reads the record table and header of fs and prepares its images.
// Image pixels are read on demand.
func Open(ctx context.Context, fs *Fileset, optFns ...Option) (*Bin, error) {
	o := applyOptions(optFns)
	start := time.Now()

	b, err := open(ctx, fs, o)
	o.metricsCollector.RecordOpen(time.Since(start), err)
	if err != nil {
		o.logger.WithBin(fs.Base()).LogOpen(ctx, 0, 0, err)
		return nil, err
	}
	b.logger.LogOpen(ctx, b.table.Len(), b.final.Len(), nil)
	return b, nil
}

// OpenPath opens the fileset at basePath on the local file system.
func OpenPath(ctx context.Context, basePath string, optFns ...Option) (*Bin, error) {
	return Open(ctx, LocalFileset(basePath), optFns...)
}

func open(ctx context.Context, fs *Fileset, o options) (*Bin, error) {
	p, err := fs.PID()
	if err != nil {
		return nil, err
	}
	s, err := schema.For(p.SchemaVersion())
	if err != nil {
		return nil, err
	}

	data, err := fs.read(ctx, fs.ADCName())
	if err != nil {
		return nil, translateError(err)
	}
	table, err := adc.Parse(bytes.NewReader(data), s, adc.WithFieldPolicy(o.fieldPolicy))
	if err != nil {
		return nil, fmt.Errorf("ifcb: %s: %w", fs.ADCName(), err)
	}

	data, err = fs.read(ctx, fs.HDRName())
	if err != nil {
		return nil, translateError(err)
	}
	headers, err := o.headerParser(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ifcb: %s: %w", fs.HDRName(), err)
	}

	logger := o.logger.WithBin(p.BinLID()).WithSchema(s.Name())
	images := roi.FromTable(table, fs.Store(), fs.ROIName())

	var st *stitch.Stitcher
	if o.stitch(s.Version()) {
		st = stitch.New(table, images, stitch.WithThreshold(o.stitchThreshold))
		o.metricsCollector.RecordStitch(st.Len())
		logger.LogStitch(ctx, st.Len(), st.Threshold())
	}

	if o.imagesOpen {
		if err := images.Open(ctx); err != nil {
			return nil, translateError(&FileError{Name: fs.ROIName(), cause: err})
		}
	}

	return &Bin{
		fileset:  fs,
		pid:      p,
		schema:   s,
		table:    table,
		headers:  headers,
		images:   images,
		stitcher: st,
		final:    stitch.NewImages(images, st),
		logger:   logger,
		metrics:  o.metricsCollector,
	}, nil
}

// Fileset returns the raw files the bin was read from.
func (b *Bin) Fileset() *Fileset { return b.fileset }

// PID returns the bin identifier.
func (b *Bin) PID() pid.PID { return b.pid }

// LID returns the bin identifier without namespace, target and product.
func (b *Bin) LID() string { return b.pid.BinLID() }

// Timestamp returns the acquisition time encoded in the identifier (UTC).
func (b *Bin) Timestamp() time.Time { return b.pid.Timestamp() }

// Schema returns the record layout of the bin.
func (b *Bin) Schema() schema.Schema { return b.schema }

// Headers returns a copy of the header mapping.
func (b *Bin) Headers() hdr.Header { return maps.Clone(b.headers) }

// Table returns the record table.
func (b *Bin) Table() *adc.Table { return b.table }

// Keys returns every target number, ascending.
func (b *Bin) Keys() []int { return b.table.Keys() }

// Len returns the number of targets.
func (b *Bin) Len() int { return b.table.Len() }

// Contains reports whether n is a target of the bin.
func (b *Bin) Contains(n int) bool { return b.table.Contains(n) }

// Get returns the record of target n.
func (b *Bin) Get(_ context.Context, n int) (adc.Record, error) {
	rec, err := b.table.Get(n)
	if err != nil {
		return nil, translateError(err)
	}
	return rec, nil
}

// Images returns the raw image store. Its keys are the targets with a
// nonempty image. The store outlives Close: its Get opens the .roi blob for
// each read when no handle is held. Use Image for reads that honor Close.
func (b *Bin) Images() *roi.Store { return b.images }

// Stitcher returns the stitcher, or nil when the bin is not stitched.
func (b *Bin) Stitcher() *stitch.Stitcher { return b.stitcher }

// FinalImages returns the reconstructed images: stitched and infilled where
// a target was split, raw otherwise. Like Images, it keeps reading after Close.
func (b *Bin) FinalImages() *stitch.Images { return b.final }

// Image returns the final image of target n.
func (b *Bin) Image(ctx context.Context, n int) (*image.Gray, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	img, err := b.final.Get(ctx, n)
	pixels := 0
	if err == nil {
		pixels = len(img.Pix)
	}
	b.metrics.RecordImageRead(pixels, time.Since(start), err)
	b.logger.LogImageRead(ctx, n, b.stitcher != nil && b.stitcher.Contains(n), err)
	if err != nil {
		return nil, translateError(err)
	}
	return img, nil
}

// Shape returns the height and width of target n's final image without
// reading pixels.
func (b *Bin) Shape(n int) (height, width int, err error) {
	height, width, err = b.final.Shape(n)
	return height, width, translateError(err)
}
