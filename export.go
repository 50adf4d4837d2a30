package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	sheetPadding = 4
	sheetLabel   = 14
)

// exportSheet writes a preview of every frame of v side by side, scaled up
// and numbered. It is an export: the view's file status is not touched.
func (m *model) exportSheet(v *View, filename string, scale int) error {
	if scale < 1 {
		scale = 1
	}
	if err := v.checkOverwrite(filename); err != nil {
		return err
	}
	img := m.canvas.Composite(v)
	ext := v.Extent()

	cellW := ext.FW*scale + sheetPadding*2
	cellH := ext.FH*scale + sheetPadding*2 + sheetLabel
	sheet := image.NewRGBA(image.Rect(0, 0, cellW*ext.NFrames, cellH))
	draw.Draw(sheet, sheet.Bounds(), image.White, image.Point{}, draw.Src)
	for n, frame := range ext.Frames() {
		dst := image.Rect(0, 0, ext.FW*scale, ext.FH*scale).Add(image.Pt(n*cellW+sheetPadding, sheetPadding))
		draw.NearestNeighbor.Scale(sheet, dst, img, frame, draw.Over, nil)
	}

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	dc := gg.NewContextForRGBA(sheet)
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    10,
		DPI:     72,
		Hinting: font.HintingFull,
	}))
	dc.SetColor(color.Black)
	for n := 0; n < ext.NFrames; n++ {
		x := float64(n*cellW) + float64(cellW)/2
		y := float64(cellH - sheetLabel/2)
		dc.DrawStringAnchored(fmt.Sprintf("%d", n+1), x, y, 0.5, 0.5)
	}
	return dc.SavePNG(filename)
}
