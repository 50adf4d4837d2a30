package main

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// historyRecorder is implemented by resources that accept completed edits.
type historyRecorder interface {
	RecordLayerPainted(id LayerID, extent ViewExtent, pixels []color.RGBA) EditID
	RecordViewPainted(extent ViewExtent, layers [][]color.RGBA) EditID
	RecordViewResized(from, to ViewExtent, layers [][]color.RGBA) EditID
}

// surface is the renderer-side copy of a view's pixels, one image per layer.
type surface struct {
	extent ViewExtent
	layers []*image.RGBA
}

func (s *surface) size() image.Rectangle {
	return s.layers[0].Bounds()
}

func (s *surface) pixels() [][]color.RGBA {
	out := make([][]color.RGBA, len(s.layers))
	for i := range s.layers {
		out[i] = s.layerPixels(LayerID(i))
	}
	return out
}

func (s *surface) layerPixels(id LayerID) []color.RGBA {
	_, _, pixels := pixelsFromImage(s.layers[id])
	return pixels
}

// Canvas is the terminal render backend. Each tick it drains the op queue of
// a view, applies the ops in order and acknowledges the view's state.
type Canvas struct {
	surfaces  map[ViewID]*surface
	clipboard *image.RGBA

	// System clipboard hooks; nil disables them.
	copyText  func(string) error
	pasteText func() (string, error)
}

func NewCanvas() *Canvas {
	return &Canvas{
		surfaces:  make(map[ViewID]*surface),
		copyText:  writeClipboardText,
		pasteText: readClipboardText,
	}
}

// Forget drops the surfaces of a closed view.
func (c *Canvas) Forget(id ViewID) {
	delete(c.surfaces, id)
}

func (c *Canvas) surfaceFor(v *View) *surface {
	if s, ok := c.surfaces[v.ID]; ok {
		return s
	}
	s := &surface{extent: v.Extent()}
	for _, l := range v.Layers() {
		snap, pixels, ok := v.Resource().CurrentSnapshot(l.Index)
		if !ok {
			s.layers = append(s.layers, image.NewRGBA(s.extent.Bounds()))
			continue
		}
		s.extent = snap.Extent
		s.layers = append(s.layers, imageFromPixels(snap.Extent.Width(), snap.Extent.Height(), pixels))
	}
	c.surfaces[v.ID] = s
	return s
}

// Sync brings the canvas in line with v and records the finished edit in the
// view's history.
func (c *Canvas) Sync(v *View) {
	s := c.surfaceFor(v)
	ops := v.DrainOps()
	if v.IsOkay() && len(ops) == 0 {
		return
	}
	from := s.extent
	for _, op := range ops {
		c.apply(v, s, op)
	}
	to := v.Extent()
	s.extent = to

	rec, _ := v.Resource().(historyRecorder)
	state := v.State()
	switch state.Kind() {
	case StateKindDamaged:
		c.restore(v, s)
	case StateKindLayerDamaged:
		id, _ := state.Layer()
		c.restoreLayer(v, s, id)
	case StateKindDirty, StateKindLayerDirty:
		if rec == nil {
			break
		}
		switch {
		case from != to:
			rec.RecordViewResized(from, to, s.pixels())
		case state.Kind() == StateKindDirty:
			rec.RecordViewPainted(to, s.pixels())
		default:
			id, _ := state.Layer()
			if int(id) < len(s.layers) {
				rec.RecordLayerPainted(id, to, s.layerPixels(id))
			}
		}
	}
	v.Okay()
}

func (c *Canvas) apply(v *View, s *surface, op ViewOp) {
	switch op := op.(type) {
	case OpResize:
		for i, img := range s.layers {
			next := image.NewRGBA(image.Rect(0, 0, op.Width, op.Height))
			draw.Draw(next, next.Bounds(), img, image.Point{}, draw.Src)
			s.layers[i] = next
		}
	case OpBlit:
		for _, img := range s.layers {
			src := image.NewRGBA(image.Rect(0, 0, op.Src.Dx(), op.Src.Dy()))
			draw.Draw(src, src.Bounds(), img, op.Src.Min, draw.Src)
			draw.Draw(img, op.Dst, src, image.Point{}, draw.Src)
		}
	case OpClear:
		if img := s.layer(op.Layer); img != nil {
			draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
		}
	case OpSetPixel:
		if img := s.layer(op.Layer); img != nil {
			img.SetRGBA(op.Point.X, op.Point.Y, op.Color)
		}
	case OpFlip:
		if img := s.layer(op.Layer); img != nil {
			flipRect(img, op.Rect, op.Axis)
		}
	case OpYank:
		if img := s.layer(op.Layer); img != nil {
			c.yank(img, op.Rect)
		}
	case OpPaste:
		img := s.layer(op.Layer)
		if img == nil {
			return
		}
		if c.clipboard == nil && c.pasteText != nil {
			if text, err := c.pasteText(); err == nil {
				c.clipboard, _ = decodeClipboard(text)
			}
		}
		if c.clipboard != nil {
			draw.Draw(img, op.Rect, c.clipboard, image.Point{}, draw.Over)
		}
	case OpAddLayer:
		if int(op.Layer) != len(s.layers) {
			slog.Warn("add layer out of order", "view", v.ID, "layer", op.Layer, "have", len(s.layers))
			return
		}
		img := image.NewRGBA(s.size())
		if snap, pixels, ok := v.Resource().CurrentSnapshot(op.Layer); ok && snap.Extent.Bounds() == img.Bounds() {
			img = imageFromPixels(snap.Extent.Width(), snap.Extent.Height(), pixels)
		}
		s.layers = append(s.layers, img)
	case OpRemoveLayer:
		if int(op.Layer) == len(s.layers)-1 && len(s.layers) > 1 {
			s.layers = s.layers[:len(s.layers)-1]
		}
	}
}

func (s *surface) layer(id LayerID) *image.RGBA {
	if id < 0 || int(id) >= len(s.layers) {
		return nil
	}
	return s.layers[id]
}

func (c *Canvas) yank(img *image.RGBA, r image.Rectangle) {
	clip := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(clip, clip.Bounds(), img, r.Min, draw.Src)
	c.clipboard = clip
	if c.copyText == nil {
		return
	}
	if err := c.copyText(encodeClipboard(clip)); err != nil {
		slog.Debug("system clipboard unavailable", "err", err)
	}
}

// restore reloads every layer from the view's snapshots.
func (c *Canvas) restore(v *View, s *surface) {
	for len(s.layers) > v.LayerCount() {
		s.layers = s.layers[:len(s.layers)-1]
	}
	for len(s.layers) < v.LayerCount() {
		s.layers = append(s.layers, image.NewRGBA(s.extent.Bounds()))
	}
	for i := range s.layers {
		c.restoreLayer(v, s, LayerID(i))
	}
}

func (c *Canvas) restoreLayer(v *View, s *surface, id LayerID) {
	snap, pixels, ok := v.Resource().CurrentSnapshot(id)
	if !ok || int(id) >= len(s.layers) {
		slog.Warn("no snapshot to restore", "view", v.ID, "layer", id)
		return
	}
	s.layers[id] = imageFromPixels(snap.Extent.Width(), snap.Extent.Height(), pixels)
}

func flipRect(img *image.RGBA, r image.Rectangle, axis Axis) {
	r = r.Intersect(img.Bounds())
	src := image.NewRGBA(r)
	draw.Draw(src, r, img, r.Min, draw.Src)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sx, sy := x, y
			if axis == AxisHorizontal {
				sx = r.Max.X - 1 - (x - r.Min.X)
			} else {
				sy = r.Max.Y - 1 - (y - r.Min.Y)
			}
			img.SetRGBA(x, y, src.RGBAAt(sx, sy))
		}
	}
}

// Composite flattens the visible layers of v.
func (c *Canvas) Composite(v *View) *image.RGBA {
	s := c.surfaceFor(v)
	out := image.NewRGBA(s.size())
	for i, img := range s.layers {
		if l, ok := v.Layer(LayerID(i)); ok && l.Hidden {
			continue
		}
		draw.Draw(out, out.Bounds(), img, image.Point{}, draw.Over)
	}
	return out
}

var (
	checkerLight = color.RGBA{0x66, 0x66, 0x66, 0xff}
	checkerDark  = color.RGBA{0x44, 0x44, 0x44, 0xff}
	cursorColor  = color.RGBA{0xff, 0x00, 0xff, 0xff}
)

// Render draws region r of v into width x height terminal cells, two pixels
// per cell stacked vertically.
func (c *Canvas) Render(v *View, r image.Rectangle, width, height int, cursor image.Point, showCursor bool) []string {
	img := c.Composite(v)
	zoom := v.Zoom()
	b := img.Bounds()
	pixelAt := func(x, y int) (color.RGBA, bool) {
		if v.FlipX {
			x = r.Min.X + r.Max.X - 1 - x
		}
		if v.FlipY {
			y = r.Min.Y + r.Max.Y - 1 - y
		}
		p := image.Pt(x, y)
		if !p.In(r) || !p.In(b) {
			return color.RGBA{}, false
		}
		if showCursor && p == cursor {
			return cursorColor, true
		}
		px := img.RGBAAt(x, y)
		if px.A == 0 {
			if (x+y)%2 == 0 {
				return checkerLight, true
			}
			return checkerDark, true
		}
		return blendOver(px, checkerDark), true
	}

	lines := make([]string, height)
	for cy := 0; cy < height; cy++ {
		var line strings.Builder
		for cx := 0; cx < width; cx++ {
			x := r.Min.X + v.Offset.X + cx/zoom
			top, topOK := pixelAt(x, r.Min.Y+v.Offset.Y+(2*cy)/zoom)
			bot, botOK := pixelAt(x, r.Min.Y+v.Offset.Y+(2*cy+1)/zoom)
			switch {
			case topOK && botOK:
				line.WriteString(lipgloss.NewStyle().
					Foreground(lipgloss.Color(hexColor(top))).
					Background(lipgloss.Color(hexColor(bot))).
					Render("▀"))
			case topOK:
				line.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(top))).Render("▀"))
			default:
				line.WriteByte(' ')
			}
		}
		lines[cy] = line.String()
	}
	return lines
}

func blendOver(px, bg color.RGBA) color.RGBA {
	if px.A == 0xff {
		return px
	}
	inv := uint32(0xff - px.A)
	return color.RGBA{
		R: uint8(uint32(px.R) + uint32(bg.R)*inv/0xff),
		G: uint8(uint32(px.G) + uint32(bg.G)*inv/0xff),
		B: uint8(uint32(px.B) + uint32(bg.B)*inv/0xff),
		A: 0xff,
	}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
