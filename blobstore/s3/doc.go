// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "ifcb-data", "mvco/")
//	bin, err := ifcb.Open(ctx, ifcb.NewFileset(store, "D20160714T023910_IFCB101"))
//
// # Features
//
//   - Range reads, so one target's image costs one GET
//   - Parallel whole-object downloads for ADC and header files
//   - Optional bandwidth limit through a resource.Controller
//   - Automatic pagination for listing
package s3
