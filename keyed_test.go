package ifcb

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/hupe1980/ifcb/adc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceKeyed has no Contains method.
type sliceKeyed []string

func (s sliceKeyed) Keys() []int {
	keys := make([]int, len(s))
	for i := range s {
		keys[i] = i + 1
	}
	return keys
}

func (s sliceKeyed) Get(_ context.Context, n int) (string, error) {
	if n < 1 || n > len(s) {
		return "", fmt.Errorf("%w: %d", ErrNotFound, n)
	}
	return s[n-1], nil
}

func (s sliceKeyed) Len() int { return len(s) }

func TestContains(t *testing.T) {
	_, bin := openLegacy(t)

	assert.True(t, Contains[*image.Gray](bin.Images(), 4))
	assert.False(t, Contains[*image.Gray](bin.FinalImages(), 4))
	assert.False(t, Contains[*image.Gray](bin.Images(), 7))
	assert.True(t, Contains(Keyed[string](sliceKeyed{"a", "b"}), 2))
	assert.False(t, Contains(Keyed[string](sliceKeyed{"a", "b"}), 3))
}

func TestCollect(t *testing.T) {
	fs, bin := openLegacy(t)
	ctx := context.Background()

	raw, err := Collect[*image.Gray](ctx, bin.Images())
	require.NoError(t, err)
	require.Len(t, raw, 6)
	for n, img := range raw {
		assert.Equal(t, fs.Images[n].Pix, img.Pix, "target %d", n)
	}

	final, err := Collect[*image.Gray](ctx, bin.FinalImages())
	require.NoError(t, err)
	assert.Len(t, final, 5)
	assert.NotContains(t, final, 4)

	records, err := Collect(ctx, Keyed[adc.Record](bin))
	require.NoError(t, err)
	assert.Len(t, records, 7)
}

func TestEach(t *testing.T) {
	ctx := context.Background()
	k := sliceKeyed{"a", "b", "c"}

	var seen []string
	require.NoError(t, Each(ctx, k, func(n int, v string) error {
		seen = append(seen, fmt.Sprintf("%d=%s", n, v))
		return nil
	}))
	assert.Equal(t, []string{"1=a", "2=b", "3=c"}, seen)

	stop := errors.New("stop")
	calls := 0
	err := Each(ctx, k, func(int, string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	err = Each(canceled, k, func(int, string) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
