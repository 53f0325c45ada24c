package stitch

// DefaultThreshold is the overlap in pixels two boxes must exceed on both
// axes to be stitched.
const DefaultThreshold = 2

type options struct {
	threshold int
}

// Option configures a Stitcher.
type Option func(*options)

// WithThreshold sets the required overlap in pixels.
func WithThreshold(t int) Option {
	return func(o *options) {
		o.threshold = t
	}
}
