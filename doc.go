// Package ifcb reads raw data of the Imaging FlowCytobot (IFCB).
//
// An IFCB acquisition ("bin") is stored as three files sharing a base name:
//
//   - <bin>.adc: one comma-separated record per target (trigger, geometry,
//     byte offset of the image and instrument readings)
//   - <bin>.roi: the concatenated 8-bit grayscale images of all targets
//   - <bin>.hdr: instrument settings as free text or "key: value" lines
//
// The base name is the bin identifier. It encodes the acquisition time, the
// instrument and the schema generation (v1 for IFCB1_yyyy_DDD_HHMMSS names,
// v2 for DyyyymmddTHHMMSS_IFCBnnn names).
//
// # Quick Start
//
//	ctx := context.Background()
//	bin, err := ifcb.OpenPath(ctx, "data/D20160101T000000_IFCB101")
//	if err != nil {
//	    return err
//	}
//	defer bin.Close()
//
//	for _, n := range bin.FinalImages().Keys() {
//	    img, err := bin.Image(ctx, n)
//	    ...
//	}
//
// # Remote Filesets
//
// Any blobstore.BlobStore can hold filesets:
//
//	store, _ := s3.New(ctx, "my-bucket", "ifcb/")
//	bin, _ := ifcb.Open(ctx, ifcb.NewFileset(store, "D20160101T000000_IFCB101"))
//
// Wrap remote stores in a blobstore.CachingStore to keep image blocks in
// memory, and in a blobstore.DecompressingStore to read .zst or .lz4 files.
//
// # Stitching
//
// First generation instruments sometimes split one target across two
// consecutive records. For v1 bins the split halves are stitched back
// together and the gap between them is infilled. The second half is then no
// longer a key of FinalImages. Use WithStitching to override the default.
//
// # Subpackages
//
//   - pid: bin and target identifiers
//   - schema: record layouts
//   - adc: record table parser
//   - roi: raw image store
//   - stitch: stitching, infill and final images
//   - hdr: header reader
//   - blobstore: local, memory, caching, decompressing, S3 and MinIO sources
package ifcb
