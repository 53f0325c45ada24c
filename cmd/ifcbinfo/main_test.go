package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/ifcb/schema"
	"github.com/hupe1980/ifcb/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeBins(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	_, err := testutil.NewFilesetBuilder(schema.V1, 1).
		Add(1, 0, 0, 10, 10).
		Add(2, 10, 10, 20, 10).
		Add(2, 12, 14, 20, 12).
		AddEmpty(3).
		Build().
		WriteDir(dir, "IFCB5_2010_100_120000")
	require.NoError(t, err)

	_, err = testutil.NewFilesetBuilder(schema.V2, 2).
		Add(1, 0, 0, 4, 3).
		Build().
		WriteDir(dir, "D20160102T030405_IFCB101")
	require.NoError(t, err)
	return dir
}

func decodeReports(t *testing.T, out []byte) []binReport {
	t.Helper()
	var reports []binReport
	require.NoError(t, yaml.Unmarshal(out, &reports))
	return reports
}

func TestRun(t *testing.T) {
	dir := writeBins(t)
	var stdout bytes.Buffer

	err := run(context.Background(), []string{
		"--root", dir, "--shapes", "--read", "--headers",
		"IFCB5_2010_100_120000", "D20160102T030405_IFCB101",
	}, &stdout, io.Discard)
	require.NoError(t, err)

	reports := decodeReports(t, stdout.Bytes())
	require.Len(t, reports, 2)

	v1 := reports[0]
	assert.Equal(t, "IFCB5_2010_100_120000", v1.Bin)
	assert.Equal(t, "v1", v1.Schema)
	assert.Equal(t, 5, v1.Instrument)
	assert.Equal(t, 4, v1.Targets)
	assert.Equal(t, 3, v1.Images)
	assert.Equal(t, 2, v1.FinalImages)
	assert.Equal(t, []pairReport{{Target: 2, Partner: 3, Height: 16, Width: 22}}, v1.Stitched)
	assert.Equal(t, []shapeReport{
		{Target: 1, Height: 10, Width: 10},
		{Target: 2, Height: 16, Width: 22},
	}, v1.Shapes)
	assert.Equal(t, int64(100+16*22), v1.PixelsRead)
	assert.Equal(t, "30", v1.Headers["binarizeThreshold"])
	assert.Empty(t, v1.Error)

	v2 := reports[1]
	assert.Equal(t, "v2", v2.Schema)
	assert.Empty(t, v2.Stitched)
	assert.Equal(t, int64(12), v2.PixelsRead)
}

func TestRun_List(t *testing.T) {
	dir := writeBins(t)
	var stdout bytes.Buffer

	err := run(context.Background(), []string{"--root", dir, "--list", "--stitching", "off"}, &stdout, io.Discard)
	require.NoError(t, err)

	reports := decodeReports(t, stdout.Bytes())
	require.Len(t, reports, 2)
	assert.Equal(t, "D20160102T030405_IFCB101", reports[0].Bin)
	assert.Equal(t, "IFCB5_2010_100_120000", reports[1].Bin)
	assert.Empty(t, reports[1].Stitched)
	assert.Equal(t, 3, reports[1].FinalImages)
}

func TestRun_FailedBin(t *testing.T) {
	dir := writeBins(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "D20160102T030405_IFCB101.hdr")))
	var stdout bytes.Buffer

	err := run(context.Background(), []string{
		"--root", dir, "-j", "2",
		"IFCB5_2010_100_120000", "D20160102T030405_IFCB101",
	}, &stdout, io.Discard)
	require.EqualError(t, err, "1 of 2 bins failed")

	reports := decodeReports(t, stdout.Bytes())
	require.Len(t, reports, 2)
	assert.Empty(t, reports[0].Error)
	assert.NotEmpty(t, reports[1].Error)
	assert.Equal(t, "D20160102T030405_IFCB101", reports[1].Bin)
}

func TestRun_Decompress(t *testing.T) {
	dir := writeBins(t)
	// Without decompression a missing plain file fails.
	roi := filepath.Join(dir, "D20160102T030405_IFCB101.roi")
	data, err := os.ReadFile(roi)
	require.NoError(t, err)
	require.NoError(t, os.Remove(roi))
	require.NoError(t, os.WriteFile(roi+".zst", testutil.Zstd(data), 0o644))

	var stdout bytes.Buffer
	err = run(context.Background(), []string{"--root", dir, "D20160102T030405_IFCB101"}, &stdout, io.Discard)
	require.Error(t, err)

	stdout.Reset()
	err = run(context.Background(), []string{"--root", dir, "--decompress", "--read", "D20160102T030405_IFCB101"}, &stdout, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, int64(12), decodeReports(t, stdout.Bytes())[0].PixelsRead)
}
