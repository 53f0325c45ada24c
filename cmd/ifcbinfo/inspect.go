package main

import (
	"context"
	"time"

	"github.com/hupe1980/ifcb"
)

// binReport is the YAML summary of one bin.
type binReport struct {
	Bin         string            `yaml:"bin"`
	Schema      string            `yaml:"schema,omitempty"`
	Instrument  int               `yaml:"instrument,omitempty"`
	Timestamp   time.Time         `yaml:"timestamp,omitempty"`
	Bytes       int64             `yaml:"bytes,omitempty"`
	Targets     int               `yaml:"targets"`
	Images      int               `yaml:"images"`
	FinalImages int               `yaml:"final_images"`
	Stitched    []pairReport      `yaml:"stitched,omitempty"`
	Shapes      []shapeReport     `yaml:"shapes,omitempty"`
	PixelsRead  int64             `yaml:"pixels_read,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	Error       string            `yaml:"error,omitempty"`
}

type pairReport struct {
	Target  int `yaml:"target"`
	Partner int `yaml:"partner"`
	Height  int `yaml:"height"`
	Width   int `yaml:"width"`
}

type shapeReport struct {
	Target int `yaml:"target"`
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

type inspectOptions struct {
	headers bool
	shapes  bool
	read    bool
	binOpts []ifcb.Option
}

// inspect opens fs and summarises it. Failures are reported in the result,
// so one bad bin does not stop the others.
func inspect(ctx context.Context, fs *ifcb.Fileset, o inspectOptions) binReport {
	r := binReport{Bin: fs.Base()}
	if err := inspectInto(ctx, fs, o, &r); err != nil {
		r.Error = err.Error()
	}
	return r
}

func inspectInto(ctx context.Context, fs *ifcb.Fileset, o inspectOptions, r *binReport) error {
	sizes, err := fs.Sizes(ctx)
	if err != nil {
		return err
	}
	r.Bytes = sizes.Total()

	bin, err := ifcb.Open(ctx, fs, o.binOpts...)
	if err != nil {
		return err
	}
	defer bin.Close()

	r.Bin = bin.LID()
	r.Schema = bin.Schema().Name()
	r.Instrument = bin.PID().Instrument()
	r.Timestamp = bin.Timestamp()
	r.Targets = bin.Len()
	r.Images = bin.Images().Len()
	r.FinalImages = bin.FinalImages().Len()
	if o.headers {
		r.Headers = bin.Headers()
	}

	if st := bin.Stitcher(); st != nil {
		for _, n := range st.Keys() {
			p, _ := st.Pair(n)
			r.Stitched = append(r.Stitched, pairReport{
				Target:  p.Key,
				Partner: p.Partner,
				Height:  p.Union.Dy(),
				Width:   p.Union.Dx(),
			})
		}
	}

	if o.shapes {
		for _, n := range bin.FinalImages().Keys() {
			h, w, err := bin.Shape(n)
			if err != nil {
				return err
			}
			r.Shapes = append(r.Shapes, shapeReport{Target: n, Height: h, Width: w})
		}
	}

	if o.read {
		for _, n := range bin.FinalImages().Keys() {
			img, err := bin.Image(ctx, n)
			if err != nil {
				return err
			}
			r.PixelsRead += int64(len(img.Pix))
		}
	}
	return nil
}
