package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testRed  = color.RGBA{R: 0xff, A: 0xff}
	testBlue = color.RGBA{B: 0xff, A: 0xff}
)

func newTestView(fs FileStatus, extent ViewExtent) *View {
	return NewView(1, fs, extent, 1, NewStore(extent))
}

// newTestCanvas returns a canvas that never touches the system clipboard.
func newTestCanvas() *Canvas {
	c := NewCanvas()
	c.copyText = nil
	c.pasteText = nil
	return c
}

func TestNewView(t *testing.T) {
	v := newTestView(FileNoFile(), NewViewExtent(8, 4, 2))

	assert.Equal(t, 16, v.Width())
	assert.Equal(t, 4, v.Height())
	assert.Equal(t, 1, v.LayerCount())
	assert.Equal(t, 1, v.Zoom())
	assert.True(t, v.IsOkay())
	assert.False(t, v.IsModified())
	_, ok := v.SavedSnapshot()
	assert.False(t, ok)

	saved := newTestView(FileSaved(StorageSingle("a.png")), NewViewExtent(8, 4, 1))
	eid, ok := saved.SavedSnapshot()
	assert.True(t, ok)
	assert.Equal(t, EditID(0), eid)

	assert.Panics(t, func() { newTestView(FileNoFile(), NewViewExtent(0, 4, 1)) })
}

func TestView_ExtendShrinkRoundTrip(t *testing.T) {
	v := newTestView(FileNoFile(), NewViewExtent(8, 8, 1))
	before := v.Extent()

	v.Extend()
	assert.Equal(t, NewViewExtent(8, 8, 2), v.Extent())
	assert.Equal(t, 2, v.Animation().Len())

	require.True(t, v.Shrink())
	assert.Equal(t, before, v.Extent())
	assert.Equal(t, 1, v.Animation().Len())

	v.Okay()
	assert.False(t, v.Shrink(), "a view keeps at least one frame")
	assert.True(t, v.IsOkay())
}

func TestView_ExtendClone(t *testing.T) {
	v := newTestView(FileNoFile(), NewViewExtent(4, 4, 2))

	assert.False(t, v.ExtendClone(2))
	assert.False(t, v.ExtendClone(-2))
	assert.Equal(t, 2, v.Extent().NFrames)
	assert.Empty(t, v.Ops())

	require.True(t, v.ExtendClone(-1))
	assert.Equal(t, 3, v.Extent().NFrames)
	assert.Equal(t, []ViewOp{
		OpResize{Width: 12, Height: 4},
		OpBlit{Src: image.Rect(4, 0, 8, 4), Dst: image.Rect(8, 0, 12, 4)},
	}, v.Ops())
}

func TestView_Slice(t *testing.T) {
	v := newTestView(FileNoFile(), NewViewExtent(8, 8, 1))

	assert.False(t, v.Slice(3))
	assert.False(t, v.Slice(0))
	assert.False(t, v.Slice(-2))
	assert.Equal(t, NewViewExtent(8, 8, 1), v.Extent())
	assert.Equal(t, 1, v.Animation().Len())
	assert.True(t, v.IsOkay())

	require.True(t, v.Slice(2))
	assert.Equal(t, NewViewExtent(4, 8, 2), v.Extent())
	assert.Equal(t, image.Rect(4, 0, 8, 8), v.Animation().Frames()[1])
	assert.True(t, v.State().Equal(StateDirty(nil)))
}

func TestView_ResizeFrames(t *testing.T) {
	v := newTestView(FileNoFile(), NewViewExtent(8, 8, 2))

	v.ResizeFrames(4, 6)
	assert.Equal(t, NewViewExtent(4, 6, 2), v.Extent())
	assert.True(t, v.IsResized())
	assert.Panics(t, func() { v.ResizeFrames(0, 6) })
}

func TestView_Layers(t *testing.T) {
	extent := NewViewExtent(4, 4, 1)
	store := NewStore(extent)
	v := NewView(1, FileNoFile(), extent, 1, store)

	id := v.NewLayer()
	assert.Equal(t, LayerID(1), id)
	assert.Equal(t, id, v.ActiveLayerID())
	assert.Equal(t, 2, v.LayerCount())
	assert.Equal(t, []ViewOp{OpAddLayer{Layer: 1}}, v.Ops())
	assert.Equal(t, EditID(1), store.CurrentEdit())
	assert.True(t, v.IsModified())

	assert.True(t, v.PrevLayer())
	assert.Equal(t, LayerID(0), v.ActiveLayerID())
	assert.False(t, v.PrevLayer())
	assert.True(t, v.NextLayer())
	assert.False(t, v.NextLayer())

	assert.True(t, v.ToggleLayer(0))
	l, _ := v.Layer(0)
	assert.True(t, l.Hidden)
	assert.False(t, v.ToggleLayer(7))
}

func TestView_RemoveLayerOnlyLast(t *testing.T) {
	extent := NewViewExtent(4, 4, 1)
	v := NewView(1, FileNoFile(), extent, 3, NewStore(extent, make([]color.RGBA, 16), make([]color.RGBA, 16), make([]color.RGBA, 16)))

	assert.Panics(t, func() { v.RemoveLayer(0) })
	assert.Panics(t, func() { v.RemoveLayer(1) })
	assert.Equal(t, 3, v.LayerCount())

	v.ActivateLayer(2)
	v.RemoveLayer(2)
	assert.Equal(t, 2, v.LayerCount())
	assert.Equal(t, LayerID(1), v.ActiveLayerID())
	assert.Equal(t, []ViewOp{OpRemoveLayer{Layer: 2}}, v.Ops())
}

func TestView_PixelEdits(t *testing.T) {
	v := newTestView(FileNoFile(), NewViewExtent(4, 4, 2))

	assert.False(t, v.Paint(image.Pt(8, 0), testRed))
	assert.True(t, v.IsOkay())
	assert.Empty(t, v.Ops())

	assert.True(t, v.Yank(image.Rect(0, 0, 4, 4)))
	assert.True(t, v.IsOkay(), "yank changes nothing on the view")

	assert.True(t, v.Paint(image.Pt(1, 1), testRed))
	assert.True(t, v.State().Equal(StateLayerDirty(0)))

	assert.True(t, v.Flip(image.Rect(2, 0, 20, 4), AxisVertical))
	ops := v.Ops()
	assert.Equal(t, OpFlip{Layer: 0, Rect: image.Rect(2, 0, 8, 4), Axis: AxisVertical}, ops[len(ops)-1],
		"rectangles are clipped to the view")

	assert.False(t, v.Paste(image.Rect(10, 0, 12, 4)))
}

func TestView_Zoom(t *testing.T) {
	v := newTestView(FileNoFile(), NewViewExtent(4, 4, 1))

	v.SetZoom(0)
	assert.Equal(t, 1, v.Zoom())
	v.SetZoom(maxZoom + 5)
	assert.Equal(t, maxZoom, v.Zoom())

	v.Pan(3, -1)
	assert.Equal(t, image.Pt(3, -1), v.Offset)
}

func TestView_ColorAt(t *testing.T) {
	canvas := newTestCanvas()
	v := newTestView(FileNoFile(), NewViewExtent(4, 4, 1))
	p := image.Pt(3, 1)

	v.Paint(p, testRed)
	c, ok := v.ColorAt(0, p)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{}, c, "unsynced edits are not recorded yet")

	canvas.Sync(v)
	c, ok = v.ColorAt(0, p)
	require.True(t, ok)
	assert.Equal(t, testRed, c)

	_, ok = v.ColorAt(0, image.Pt(4, 0))
	assert.False(t, ok)
	_, ok = v.ColorAt(0, image.Pt(-1, 0))
	assert.False(t, ok)
	_, ok = v.ColorAt(1, p)
	assert.False(t, ok)
}

func TestView_LayerAt(t *testing.T) {
	canvas := newTestCanvas()
	v := newTestView(FileNoFile(), NewViewExtent(4, 4, 1))
	under, both := image.Pt(0, 0), image.Pt(1, 1)

	v.Paint(under, testRed)
	v.Paint(both, testRed)
	canvas.Sync(v)
	top := v.NewLayer()
	v.Paint(both, testBlue)
	canvas.Sync(v)

	id, ok := v.LayerAt(both)
	require.True(t, ok)
	assert.Equal(t, top, id)
	id, ok = v.LayerAt(under)
	require.True(t, ok)
	assert.Equal(t, LayerID(0), id, "transparent pixels fall through")

	require.True(t, v.ToggleLayer(top))
	id, ok = v.LayerAt(both)
	require.True(t, ok)
	assert.Equal(t, LayerID(0), id, "hidden layers are skipped")

	_, ok = v.LayerAt(image.Pt(2, 2))
	assert.False(t, ok)
	_, ok = v.LayerAt(image.Pt(9, 9))
	assert.False(t, ok)
}
