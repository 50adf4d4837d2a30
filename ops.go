package main

import (
	"image"
	"image/color"
)

// ViewOp is a render instruction queued by an edit and consumed by the renderer.
type ViewOp interface {
	viewOp()
}

// OpBlit copies Src onto Dst on every layer.
type OpBlit struct {
	Src image.Rectangle
	Dst image.Rectangle
}

type OpClear struct {
	Layer LayerID
}

// OpYank copies a region to the clipboard.
type OpYank struct {
	Layer LayerID
	Rect  image.Rectangle
}

type OpFlip struct {
	Layer LayerID
	Rect  image.Rectangle
	Axis  Axis
}

// OpPaste writes the clipboard at the origin of Rect.
type OpPaste struct {
	Layer LayerID
	Rect  image.Rectangle
}

type OpResize struct {
	Width  int
	Height int
}

type OpSetPixel struct {
	Layer LayerID
	Point image.Point
	Color color.RGBA
}

type OpAddLayer struct {
	Layer LayerID
}

type OpRemoveLayer struct {
	Layer LayerID
}

func (OpBlit) viewOp()        {}
func (OpClear) viewOp()       {}
func (OpYank) viewOp()        {}
func (OpFlip) viewOp()        {}
func (OpPaste) viewOp()       {}
func (OpResize) viewOp()      {}
func (OpSetPixel) viewOp()    {}
func (OpAddLayer) viewOp()    {}
func (OpRemoveLayer) viewOp() {}

// OpQueue holds the ops produced since the last render tick. Order matters:
// later ops may refer to layers created by earlier ones.
type OpQueue struct {
	ops []ViewOp
}

func (q *OpQueue) Push(op ViewOp) {
	q.ops = append(q.ops, op)
}

func (q *OpQueue) Len() int {
	return len(q.ops)
}

func (q *OpQueue) Peek() []ViewOp {
	return q.ops
}

// Drain returns the queued ops in push order and empties the queue.
func (q *OpQueue) Drain() []ViewOp {
	ops := q.ops
	q.ops = nil
	return ops
}
