// Package roi reads target images from a bin's .roi blob.
//
// The blob is a plain concatenation of 8-bit grayscale pixel blocks. Where
// each block starts and how large it is comes from the bin's ADC records, so
// a Store is always built on top of an adc.Table:
//
//	s, err := roi.FromPath("D20160714T023910_IFCB101.adc", "D20160714T023910_IFCB101.roi")
//	err = roi.WithOpen(ctx, s, func(s *roi.Store) error {
//	    for _, n := range s.Keys() {
//	        img, err := s.Get(ctx, n)
//	        ...
//	    }
//	    return nil
//	})
//
// Targets with a zero width or height have no image and are not keys.
package roi
