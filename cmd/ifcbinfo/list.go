package main

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/hupe1980/ifcb"
	"github.com/hupe1980/ifcb/blobstore"
	"github.com/hupe1980/ifcb/pid"
)

var rawExtensions = []string{ifcb.ExtADC, ifcb.ExtHDR, ifcb.ExtROI}

var compressedSuffixes = []string{blobstore.Zstd.Suffix, blobstore.LZ4.Suffix}

// listBins returns the base names of the filesets under prefix whose names
// are bin identifiers, sorted and without duplicates. Only the .adc file
// marks a fileset.
func listBins(ctx context.Context, l blobstore.Lister, prefix string) ([]string, error) {
	names, err := l.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return groupBins(names), nil
}

func groupBins(names []string) []string {
	var bases []string
	for _, name := range names {
		base, ext := splitRaw(name)
		if ext != ifcb.ExtADC || !pid.Valid(path.Base(base)) {
			continue
		}
		bases = append(bases, base)
	}
	slices.Sort(bases)
	return slices.Compact(bases)
}

// splitRaw splits a blob name into base and raw extension, ignoring a
// compression suffix. ext is empty for other files.
func splitRaw(name string) (base, ext string) {
	for _, suffix := range compressedSuffixes {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			name = trimmed
			break
		}
	}
	for _, e := range rawExtensions {
		if b, ok := strings.CutSuffix(name, e); ok {
			return b, e
		}
	}
	return name, ""
}
