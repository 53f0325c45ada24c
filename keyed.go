package ifcb

import (
	"context"
	"image"
	"slices"

	"github.com/hupe1980/ifcb/adc"
	"github.com/hupe1980/ifcb/roi"
	"github.com/hupe1980/ifcb/stitch"
)

// Keyed is a read-only collection addressed by target number.
//
// Keys are ascending. Get fails with an error matching ErrNotFound (or the
// package's own not-found sentinel) for numbers that are not keys.
type Keyed[V any] interface {
	Keys() []int
	Get(ctx context.Context, n int) (V, error)
	Len() int
}

var (
	_ Keyed[adc.Record]  = (*Bin)(nil)
	_ Keyed[*image.Gray] = (*roi.Store)(nil)
	_ Keyed[*image.Gray] = (*stitch.Images)(nil)
)

// Contains reports whether n is a key of k.
func Contains[V any](k Keyed[V], n int) bool {
	if c, ok := k.(interface{ Contains(int) bool }); ok {
		return c.Contains(n)
	}
	_, found := slices.BinarySearch(k.Keys(), n)
	return found
}

// Each calls fn for every key of k in ascending order and stops at the
// first error.
func Each[V any](ctx context.Context, k Keyed[V], fn func(n int, v V) error) error {
	for _, n := range k.Keys() {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := k.Get(ctx, n)
		if err != nil {
			return translateError(err)
		}
		if err := fn(n, v); err != nil {
			return err
		}
	}
	return nil
}

// Collect reads every value of k into a map.
func Collect[V any](ctx context.Context, k Keyed[V]) (map[int]V, error) {
	out := make(map[int]V, k.Len())
	err := Each(ctx, k, func(n int, v V) error {
		out[n] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
