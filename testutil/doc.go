// Package testutil provides testing utilities for ifcb.
//
// This package is intended for use in tests and benchmarks only.
// It synthesises complete filesets (.adc, .roi and .hdr) with known content.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	img := rng.Image(32, 24) // 24 rows of 32 random pixels
//
// # Filesets
//
//	fs := testutil.NewFilesetBuilder(schema.V1, 4711).
//	    Add(1, 10, 10, 40, 30).
//	    AddEmpty(2).
//	    Build()
//	base, err := fs.WriteDir(t.TempDir(), "IFCB5_2010_100_120000")
//
// # Compressed Files
//
// Zstd and LZ4 produce archived variants of raw files for tests of
// blobstore.DecompressingStore.
package testutil
