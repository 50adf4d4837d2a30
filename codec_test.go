package main

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_Formats(t *testing.T) {
	dir := t.TempDir()
	pixels := []color.RGBA{testRed, testBlue, testBlue, testRed, testRed, testBlue}
	img := imageFromPixels(3, 2, pixels)

	for _, name := range []string{"s.png", "s.bmp", "s.tiff", "S.TIF"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, encodeImage(path, img))

			decoded, err := decodeImage(path)
			require.NoError(t, err)
			w, h, got := pixelsFromImage(decoded)
			assert.Equal(t, 3, w)
			assert.Equal(t, 2, h)
			assert.Equal(t, pixels, got)
		})
	}
}

func TestCodec_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.webp")
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	assert.ErrorIs(t, encodeImage(path, img), ErrUnsupportedFormat)
	_, err := decodeImage(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPixelsFromImage_Offset(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 6))
	img.SetRGBA(6, 5, testRed)

	w, h, pixels := pixelsFromImage(img)
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, []color.RGBA{{}, testRed}, pixels)
}

func TestCodec_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.jpg")
	img := imageFromPixels(8, 8, solid(64, testRed))
	require.NoError(t, encodeImage(path, img))

	decoded, err := decodeImage(path)
	require.NoError(t, err)
	w, h, got := pixelsFromImage(decoded)
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)
	c := got[3*8+3]
	assert.InDelta(t, testRed.R, c.R, 8)
	assert.InDelta(t, testRed.G, c.G, 8)
	assert.InDelta(t, testRed.B, c.B, 8)
	assert.Equal(t, uint8(0xff), c.A)
}
