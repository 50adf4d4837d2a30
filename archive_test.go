package main

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive_WriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprite.spx")
	extent := NewViewExtent(3, 2, 2)
	bottom := solid(extent.Area(), testRed)
	top := make([]color.RGBA, extent.Area())
	top[5] = color.RGBA{R: 1, G: 2, B: 3, A: 4}

	n, err := writeArchive(path, extent, [][]color.RGBA{bottom, top})
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.True(t, isArchive(path))

	gotExtent, layers, err := readArchive(path)
	require.NoError(t, err)
	assert.Equal(t, extent, gotExtent)
	require.Len(t, layers, 2)
	assert.Equal(t, bottom, layers[0])
	assert.Equal(t, top, layers[1])
}

func TestArchive_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprite.spx")
	extent := NewViewExtent(2, 2, 1)

	_, err := writeArchive(path, extent, [][]color.RGBA{solid(4, testRed), solid(4, testBlue)})
	require.NoError(t, err)
	_, err = writeArchive(path, extent, [][]color.RGBA{solid(4, testBlue)})
	require.NoError(t, err)

	_, layers, err := readArchive(path)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, testBlue, layers[0][0])
}

func TestArchive_RejectsOtherFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	assert.False(t, isArchive(path))
	assert.False(t, isArchive(filepath.Join(t.TempDir(), "missing.spx")))
	_, _, err := readArchive(path)
	assert.ErrorIs(t, err, ErrNotArchive)
}

func TestPackPixels(t *testing.T) {
	pixels := []color.RGBA{{R: 1, G: 2, B: 3, A: 4}, {R: 250, A: 255}}
	packed := packPixels(pixels)
	assert.Equal(t, []byte{1, 2, 3, 4, 250, 0, 0, 255}, packed)
	assert.Equal(t, pixels, unpackPixels(packed))
}

func TestArchive_FailedWriteKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprite.spx")
	extent := NewViewExtent(2, 2, 1)

	_, err := writeArchive(path, extent, [][]color.RGBA{solid(4, testRed)})
	require.NoError(t, err)

	_, err = writeArchive(path, extent, [][]color.RGBA{solid(4, testBlue), solid(3, testBlue)})
	require.Error(t, err)

	_, layers, err := readArchive(path)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, testRed, layers[0][0])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}
