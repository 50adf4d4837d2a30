package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

const jpegQuality = 100

// encodeImage writes img to path in the format named by the file extension.
func encodeImage(path string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return gg.SavePNG(path, img)
	case ".jpg", ".jpeg":
		// Lossy and without alpha; transparent pixels come out black.
		return gg.SaveJPG(path, img, jpegQuality)
	case ".bmp":
		return writeImageFile(path, func(f *os.File) error { return bmp.Encode(f, img) })
	case ".tif", ".tiff":
		return writeImageFile(path, func(f *os.File) error {
			return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
		})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

func writeImageFile(path string, encode func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func decodeImage(path string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return gg.LoadPNG(path)
	case ".jpg", ".jpeg":
		return gg.LoadJPG(path)
	case ".bmp":
		return readImageFile(path, bmp.Decode)
	case ".tif", ".tiff":
		return readImageFile(path, tiff.Decode)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

func readImageFile(path string, decode func(io.Reader) (image.Image, error)) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(f)
}

func imageFromPixels(w, h int, pixels []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, p := range pixels {
		img.SetRGBA(i%w, i/w, p)
	}
	return img
}

func pixelsFromImage(img image.Image) (int, int, []color.RGBA) {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	pixels := make([]color.RGBA, b.Dx()*b.Dy())
	for i := range pixels {
		pixels[i] = rgba.RGBAAt(i%b.Dx(), i/b.Dx())
	}
	return b.Dx(), b.Dy(), pixels
}
