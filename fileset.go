package ifcb

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/hupe1980/ifcb/blobstore"
	"github.com/hupe1980/ifcb/pid"
)

// Raw file extensions of a fileset.
const (
	ExtADC = ".adc"
	ExtHDR = ".hdr"
	ExtROI = ".roi"
)

// Fileset names the three raw files of one bin in a blob store:
// <base>.adc, <base>.hdr and <base>.roi.
type Fileset struct {
	store blobstore.BlobStore
	base  string
}

// NewFileset returns the fileset called base in store. base is a blob name
// without extension, for example "2016/D20160101T000000_IFCB101".
func NewFileset(store blobstore.BlobStore, base string) *Fileset {
	return &Fileset{store: store, base: base}
}

// LocalFileset returns the fileset at basePath on the local file system.
func LocalFileset(basePath string) *Fileset {
	return NewFileset(blobstore.NewLocalStore(filepath.Dir(basePath)), filepath.Base(basePath))
}

// Store returns the blob store holding the files.
func (f *Fileset) Store() blobstore.BlobStore { return f.store }

// Base returns the blob name without extension.
func (f *Fileset) Base() string { return f.base }

// ADCName returns the blob name of the record table.
func (f *Fileset) ADCName() string { return f.base + ExtADC }

// HDRName returns the blob name of the header.
func (f *Fileset) HDRName() string { return f.base + ExtHDR }

// ROIName returns the blob name of the image blob.
func (f *Fileset) ROIName() string { return f.base + ExtROI }

// PID parses the identifier from the base name.
func (f *Fileset) PID() (pid.PID, error) {
	p, err := pid.Parse(f.base)
	if err != nil {
		return pid.PID{}, translateError(err)
	}
	return p, nil
}

// Exists reports whether all three files exist.
func (f *Fileset) Exists(ctx context.Context) (bool, error) {
	for _, name := range f.names() {
		if _, err := blobstore.Stat(ctx, f.store, name); err != nil {
			if errors.Is(err, blobstore.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

// Sizes holds the size in bytes of each raw file.
type Sizes struct {
	ADC int64
	HDR int64
	ROI int64
}

// Total returns the combined size.
func (s Sizes) Total() int64 { return s.ADC + s.HDR + s.ROI }

// Sizes returns the size of each raw file. A missing file yields ErrNotFound.
func (f *Fileset) Sizes(ctx context.Context) (Sizes, error) {
	var sizes Sizes
	dst := []*int64{&sizes.ADC, &sizes.HDR, &sizes.ROI}
	for i, name := range f.names() {
		n, err := blobstore.Stat(ctx, f.store, name)
		if err != nil {
			return Sizes{}, translateError(&FileError{Name: name, cause: err})
		}
		*dst[i] = n
	}
	return sizes, nil
}

func (f *Fileset) names() []string {
	return []string{f.ADCName(), f.HDRName(), f.ROIName()}
}

func (f *Fileset) read(ctx context.Context, name string) ([]byte, error) {
	b, err := f.store.Open(ctx, name)
	if err != nil {
		return nil, &FileError{Name: name, cause: err}
	}
	defer b.Close()
	data, err := blobstore.ReadAll(ctx, b)
	if err != nil {
		return nil, &FileError{Name: name, cause: err}
	}
	return data, nil
}
