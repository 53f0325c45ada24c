package adc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/ifcb/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoTargetsV1 = `1,0.0181,0.0176,0.0142,0.0684,0.0806,0.0127,0.0073,0.0105,112,268,32,40,0,1
2,0.0221,0.0185,0.0142,0.0708,0.0903,0.0127,0.0073,0.0166,48,176,24,16,1280,1
`

func TestParse_TwoTargets(t *testing.T) {
	tbl, err := Parse(strings.NewReader(twoTargetsV1), schema.V1)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []int{1, 2}, tbl.Keys())

	rec, err := tbl.Get(2)
	require.NoError(t, err)
	require.Len(t, rec, 15)
	assert.Equal(t, 2, rec.Int(schema.V1.Trigger))
	assert.Equal(t, 48, rec.Int(schema.V1.RoiX))
	assert.Equal(t, 176, rec.Int(schema.V1.RoiY))
	assert.Equal(t, 24, rec.Int(schema.V1.RoiWidth))
	assert.Equal(t, 16, rec.Int(schema.V1.RoiHeight))
	assert.Equal(t, 1280, rec.Int(schema.V1.StartByte))
	assert.InDelta(t, 0.0221, rec[1], 1e-12)
}

func TestParse_Empty(t *testing.T) {
	for _, in := range []string{"", "\n", "\n\n\n"} {
		tbl, err := Parse(strings.NewReader(in), schema.V2)
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.Len())
		assert.Empty(t, tbl.Keys())
		assert.Equal(t, 24, tbl.Schema().NumColumns())

		_, err = tbl.Get(1)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestParse_BlankTrailingLinesAndCRLF(t *testing.T) {
	in := strings.ReplaceAll(twoTargetsV1, "\n", "\r\n") + "\r\n\r\n"
	tbl, err := Parse(strings.NewReader(in), schema.V1)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestGet_OutOfRange(t *testing.T) {
	tbl, err := Parse(strings.NewReader(twoTargetsV1), schema.V1)
	require.NoError(t, err)

	for _, n := range []int{-1, 0, 3} {
		_, err := tbl.Get(n)
		assert.ErrorIs(t, err, ErrNotFound, "target %d", n)
		assert.False(t, tbl.Contains(n))
	}
}

func TestParse_FieldCountMismatch(t *testing.T) {
	short := "1,2,3\n"
	_, err := Parse(strings.NewReader(short), schema.V1)
	require.ErrorIs(t, err, ErrFieldCount)

	var fce *FieldCountError
	require.True(t, errors.As(err, &fce))
	assert.Equal(t, 1, fce.Target)
	assert.Equal(t, 15, fce.Expected)
	assert.Equal(t, 3, fce.Actual)

	// A v1 record under the v2 schema is a mismatch too.
	_, err = Parse(strings.NewReader(twoTargetsV1), schema.V2)
	assert.ErrorIs(t, err, ErrFieldCount)
}

func TestParse_FieldPolicies(t *testing.T) {
	long := strings.TrimSuffix(strings.Split(twoTargetsV1, "\n")[0], "\n") + ",99,98\n"
	short := "7,1,2\n"

	t.Run("pad", func(t *testing.T) {
		tbl, err := Parse(strings.NewReader(short), schema.V1, WithFieldPolicy(FieldsPad))
		require.NoError(t, err)
		rec, err := tbl.Get(1)
		require.NoError(t, err)
		assert.Len(t, rec, 15)
		assert.Equal(t, 7, rec.Int(0))
		assert.Zero(t, rec[14])

		_, err = Parse(strings.NewReader(long), schema.V1, WithFieldPolicy(FieldsPad))
		assert.ErrorIs(t, err, ErrFieldCount)
	})

	t.Run("truncate", func(t *testing.T) {
		tbl, err := Parse(strings.NewReader(long), schema.V1, WithFieldPolicy(FieldsTruncate))
		require.NoError(t, err)
		rec, err := tbl.Get(1)
		require.NoError(t, err)
		assert.Len(t, rec, 15)
		assert.Equal(t, 1, rec.Int(14))

		_, err = Parse(strings.NewReader(short), schema.V1, WithFieldPolicy(FieldsTruncate))
		assert.ErrorIs(t, err, ErrFieldCount)
	})
}

func TestParse_NonNumeric(t *testing.T) {
	in := strings.Replace(twoTargetsV1, "0.0903", "abc", 1)
	_, err := Parse(strings.NewReader(in), schema.V1)
	require.ErrorIs(t, err, ErrParse)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "abc", pe.Value)
}

func TestParseRange(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		b.WriteString(strings.Repeat("1,", 14))
		b.WriteString(string(rune('0' + i)))
		b.WriteString("\n")
	}
	// A malformed line after the range must not be read.
	b.WriteString("garbage\n")

	tbl, err := ParseRange(strings.NewReader(b.String()), schema.V1, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, tbl.Keys())

	rec, err := tbl.Get(3)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Int(14))

	_, err = tbl.Get(1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = tbl.Get(4)
	assert.ErrorIs(t, err, ErrNotFound)

	empty, err := ParseRange(strings.NewReader(b.String()), schema.V1, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = ParseRange(strings.NewReader(""), schema.V1, 0, 2)
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IFCB5_2012_028_081515.adc")
	require.NoError(t, os.WriteFile(path, []byte(twoTargetsV1), 0o644))

	tbl, err := ParseFile(path, schema.V1)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.adc"), schema.V1)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAll(t *testing.T) {
	tbl, err := Parse(strings.NewReader(twoTargetsV1), schema.V1)
	require.NoError(t, err)

	var keys []int
	for n, rec := range tbl.All() {
		keys = append(keys, n)
		assert.Equal(t, n, rec.Int(schema.V1.Trigger))
	}
	assert.Equal(t, []int{1, 2}, keys)
}
