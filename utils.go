package main

import (
	"fmt"
	"image"
	"image/color"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

func (m *model) getCurrentView() *View {
	return m.views.Active()
}

// cursorFrame is the index of the frame under the cursor.
func (m *model) cursorFrame() int {
	v := m.getCurrentView()
	if v == nil {
		return 0
	}
	n, _ := v.Extent().ToFrame(m.cursor)
	return n
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return cleanClipboardText(string(output)), nil
		}
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return cleanClipboardText(text), nil
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

func cleanClipboardText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}

const clipboardHeader = "spritely"

// encodeClipboard renders an image as text: a "spritely WxH" header followed
// by one line of rrggbbaa words per row.
func encodeClipboard(img *image.RGBA) string {
	b := img.Bounds()
	var out strings.Builder
	fmt.Fprintf(&out, "%s %dx%d\n", clipboardHeader, b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if x > b.Min.X {
				out.WriteByte(' ')
			}
			p := img.RGBAAt(x, y)
			fmt.Fprintf(&out, "%02x%02x%02x%02x", p.R, p.G, p.B, p.A)
		}
		out.WriteByte('\n')
	}
	return out.String()
}

func decodeClipboard(text string) (*image.RGBA, error) {
	lines := strings.Split(cleanClipboardText(text), "\n")
	var w, h int
	if _, err := fmt.Sscanf(lines[0], clipboardHeader+" %dx%d", &w, &h); err != nil {
		return nil, fmt.Errorf("clipboard: not a pixel region")
	}
	if w <= 0 || h <= 0 || len(lines)-1 != h {
		return nil, fmt.Errorf("clipboard: expected %d rows, got %d", h, len(lines)-1)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y, line := range lines[1:] {
		words := strings.Fields(line)
		if len(words) != w {
			return nil, fmt.Errorf("clipboard: row %d has %d pixels, want %d", y, len(words), w)
		}
		for x, word := range words {
			c, err := parseHexColor(word)
			if err != nil {
				return nil, fmt.Errorf("clipboard: row %d: %w", y, err)
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

// parseHexColor accepts rrggbb or rrggbbaa, with or without a leading '#'.
func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
