// Package stitch reassembles images that first generation instruments split
// in two, and estimates the pixels neither half covers.
//
// A Stitcher finds pairs of consecutive targets that share a trigger and
// whose boxes overlap. Its images are Masked: pixels from the two halves plus
// a mask of the positions still missing. Infill produces a complementary
// Masked holding an estimate for exactly those positions, and Images hides
// the whole process behind one keyed accessor:
//
//	st := stitch.New(store.Table(), store)
//	final := stitch.NewImages(store, st)
//	for _, n := range final.Keys() {
//	    img, err := final.Get(ctx, n)
//	    ...
//	}
package stitch
