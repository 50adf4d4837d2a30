package main

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
)

// View is one open document: its geometry, layers, render state, file status
// and the resource handle backing its pixels and history.
type View struct {
	ID ViewID

	// Presentation only; not recorded in history.
	Offset image.Point
	FlipX  bool
	FlipY  bool
	zoom   int

	fw, fh      int
	ops         OpQueue
	fileStatus  FileStatus
	state       ViewState
	animation   *Animation
	layers      *Layers
	activeLayer LayerID
	resource    Resource

	// The edit that matches what is on disk.
	savedSnapshot    EditID
	hasSavedSnapshot bool
}

// NewView creates a view with nlayers full-range layers. The resource is
// expected to already hold a snapshot for each of them.
func NewView(id ViewID, fs FileStatus, extent ViewExtent, nlayers int, res Resource) *View {
	if extent.FW <= 0 || extent.FH <= 0 || extent.NFrames <= 0 {
		panic(fmt.Sprintf("view: invalid extent %+v", extent))
	}
	if nlayers < 1 {
		nlayers = 1
	}
	layers := NewLayers(NewLayer(0, FrameRangeFull))
	for i := 1; i < nlayers; i++ {
		layers.Push(NewLayer(LayerID(i), FrameRangeFull))
	}
	v := &View{
		ID:         id,
		zoom:       1,
		fw:         extent.FW,
		fh:         extent.FH,
		fileStatus: fs,
		state:      StateOkay(),
		animation:  NewAnimation(extent.Frames()),
		layers:     layers,
		resource:   res,
	}
	if fs.Kind() == FileStatusSaved {
		v.savedSnapshot = res.CurrentEdit()
		v.hasSavedSnapshot = true
	}
	return v
}

func (v *View) Extent() ViewExtent {
	return NewViewExtent(v.fw, v.fh, v.animation.Len())
}

func (v *View) Width() int {
	return v.fw * v.animation.Len()
}

func (v *View) Height() int {
	return v.fh
}

func (v *View) FrameSize() (int, int) {
	return v.fw, v.fh
}

func (v *View) Bounds() image.Rectangle {
	return v.Extent().Bounds()
}

func (v *View) Contains(p image.Point) bool {
	return p.In(v.Bounds())
}

func (v *View) Resource() Resource {
	return v.resource
}

func (v *View) FileStatus() FileStatus {
	return v.fileStatus
}

func (v *View) SavedSnapshot() (EditID, bool) {
	return v.savedSnapshot, v.hasSavedSnapshot
}

// IsModified reports unsaved changes, which is what the close and quit
// confirmations care about.
func (v *View) IsModified() bool {
	switch v.fileStatus.Kind() {
	case FileStatusModified:
		return true
	case FileStatusNoFile, FileStatusNew:
		return v.resource.CurrentEdit() > 0
	}
	return false
}

// Ops returns the pending render ops without consuming them.
func (v *View) Ops() []ViewOp {
	return v.ops.Peek()
}

// DrainOps hands the pending ops to the renderer and clears the queue.
func (v *View) DrainOps() []ViewOp {
	return v.ops.Drain()
}

// Geometry

// Extend appends an empty frame to the right of the last one.
func (v *View) Extend() {
	w := v.Width()
	v.animation.PushFrame(image.Rect(w, 0, w+v.fw, v.fh))
	v.resized()
	slog.Debug("view extended", "view", v.ID, "frames", v.animation.Len())
}

// ExtendClone extends the view and copies frame index into the new frame.
// An index of -1 clones the last frame.
func (v *View) ExtendClone(index int) bool {
	ext := v.Extent()
	if index == -1 {
		index = ext.NFrames - 1
	}
	if index < 0 || index >= ext.NFrames {
		return false
	}
	v.Extend()
	v.ops.Push(OpBlit{Src: ext.Frame(index), Dst: ext.Frame(ext.NFrames)})
	return true
}

// Shrink drops the last frame. A view always keeps at least one frame.
func (v *View) Shrink() bool {
	if !v.animation.PopFrame() {
		return false
	}
	v.resized()
	slog.Debug("view shrunk", "view", v.ID, "frames", v.animation.Len())
	return true
}

// ResizeFrames changes the frame size, keeping the frame count.
func (v *View) ResizeFrames(fw, fh int) {
	if fw <= 0 || fh <= 0 {
		panic(fmt.Sprintf("view: invalid frame size %dx%d", fw, fh))
	}
	v.reset(NewViewExtent(fw, fh, v.animation.Len()))
	v.resized()
}

// Slice reinterprets the view's width as n equal frames. The pixels are
// unchanged, but the whole view is marked dirty.
func (v *View) Slice(n int) bool {
	if n <= 0 || v.Width()%n != 0 {
		return false
	}
	v.reset(NewViewExtent(v.Width()/n, v.fh, n))
	v.Touch()
	return true
}

func (v *View) reset(e ViewExtent) {
	v.fw = e.FW
	v.fh = e.FH
	v.animation = NewAnimation(e.Frames())
}

// Animation

func (v *View) Animation() *Animation {
	return v.animation
}

func (v *View) StepAnimation() {
	v.animation.Step()
}

func (v *View) AnimationFrame() image.Rectangle {
	return v.animation.Val()
}

// Layers

func (v *View) Layers() []*Layer {
	return v.layers.All()
}

func (v *View) LayerCount() int {
	return v.layers.Len()
}

func (v *View) Layer(id LayerID) (*Layer, bool) {
	return v.layers.Get(id)
}

func (v *View) ActiveLayerID() LayerID {
	return v.activeLayer
}

func (v *View) ActiveLayer() *Layer {
	l, _ := v.layers.Get(v.activeLayer)
	return l
}

// PushLayer appends a layer and queues it for the renderer. It does not touch
// the history; see NewLayer.
func (v *View) PushLayer() LayerID {
	id := v.layers.Last().Index + 1
	v.layers.Push(NewLayer(id, FrameRangeFull))
	v.ops.Push(OpAddLayer{Layer: id})
	return id
}

// NewLayer adds a transparent layer, records it in the history and makes it active.
func (v *View) NewLayer() LayerID {
	id := v.PushLayer()
	ext := v.Extent()
	v.resource.AddLayer(id, ext, make([]color.RGBA, ext.Area()))
	v.touchStatus()
	v.activeLayer = id
	slog.Debug("layer added", "view", v.ID, "layer", id)
	return id
}

// RemoveLayer removes the topmost layer. Removing any other layer is a
// programming error.
func (v *View) RemoveLayer(id LayerID) {
	if last := v.layers.Last().Index; id != last {
		panic(fmt.Sprintf("view %d: can only remove the last layer (%d), got %d", v.ID, last, id))
	}
	v.layers.Pop()
	v.ops.Push(OpRemoveLayer{Layer: id})
	v.activeLayer = v.layers.Last().Index
	slog.Debug("layer removed", "view", v.ID, "layer", id)
}

func (v *View) ActivateLayer(id LayerID) bool {
	if _, ok := v.layers.Get(id); !ok {
		return false
	}
	v.activeLayer = id
	return true
}

func (v *View) NextLayer() bool {
	return v.ActivateLayer(v.activeLayer + 1)
}

func (v *View) PrevLayer() bool {
	return v.ActivateLayer(v.activeLayer - 1)
}

// ToggleLayer flips the visibility of a layer. Visibility is presentation only.
func (v *View) ToggleLayer(id LayerID) bool {
	l, ok := v.layers.Get(id)
	if !ok {
		return false
	}
	l.Hidden = !l.Hidden
	return true
}

// Pixel edits

// Paint sets one pixel on the active layer.
func (v *View) Paint(p image.Point, c color.RGBA) bool {
	if !v.Contains(p) {
		return false
	}
	v.ops.Push(OpSetPixel{Layer: v.activeLayer, Point: p, Color: c})
	v.TouchLayer()
	return true
}

// ColorAt reads a pixel of a layer as last recorded in the history. Edits
// not yet synced by the renderer are not visible here.
func (v *View) ColorAt(layer LayerID, p image.Point) (color.RGBA, bool) {
	snap, pixels, ok := v.resource.CurrentSnapshot(layer)
	if !ok || !p.In(snap.Extent.Bounds()) {
		return color.RGBA{}, false
	}
	return pixels[p.Y*snap.Extent.Width()+p.X], true
}

// LayerAt returns the topmost visible layer with an opaque or translucent
// pixel at p.
func (v *View) LayerAt(p image.Point) (LayerID, bool) {
	if !v.Contains(p) {
		return 0, false
	}
	layers := v.layers.All()
	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i].Hidden {
			continue
		}
		if c, ok := v.ColorAt(layers[i].Index, p); ok && c.A > 0 {
			return layers[i].Index, true
		}
	}
	return 0, false
}

func (v *View) ClearLayer() {
	v.ops.Push(OpClear{Layer: v.activeLayer})
	v.TouchLayer()
}

// Yank copies r from the active layer to the clipboard. Nothing changes on the view.
func (v *View) Yank(r image.Rectangle) bool {
	r = r.Intersect(v.Bounds())
	if r.Empty() {
		return false
	}
	v.ops.Push(OpYank{Layer: v.activeLayer, Rect: r})
	return true
}

func (v *View) Paste(r image.Rectangle) bool {
	r = r.Intersect(v.Bounds())
	if r.Empty() {
		return false
	}
	v.ops.Push(OpPaste{Layer: v.activeLayer, Rect: r})
	v.TouchLayer()
	return true
}

func (v *View) Flip(r image.Rectangle, axis Axis) bool {
	r = r.Intersect(v.Bounds())
	if r.Empty() {
		return false
	}
	v.ops.Push(OpFlip{Layer: v.activeLayer, Rect: r, Axis: axis})
	v.TouchLayer()
	return true
}

// Presentation

func (v *View) Zoom() int {
	return v.zoom
}

func (v *View) SetZoom(z int) {
	if z < 1 {
		z = 1
	}
	if z > maxZoom {
		z = maxZoom
	}
	v.zoom = z
}

func (v *View) Pan(dx, dy int) {
	v.Offset = v.Offset.Add(image.Pt(dx, dy))
}
