package main

import "image"

// ViewExtent is the geometry of a view: frame size and frame count.
type ViewExtent struct {
	FW      int
	FH      int
	NFrames int
}

func NewViewExtent(fw, fh, nframes int) ViewExtent {
	return ViewExtent{FW: fw, FH: fh, NFrames: nframes}
}

func (e ViewExtent) Width() int {
	return e.FW * e.NFrames
}

func (e ViewExtent) Height() int {
	return e.FH
}

func (e ViewExtent) Area() int {
	return e.Width() * e.Height()
}

// Bounds is the rectangle covering every frame.
func (e ViewExtent) Bounds() image.Rectangle {
	return image.Rect(0, 0, e.Width(), e.FH)
}

// Frame returns the rectangle of frame n.
func (e ViewExtent) Frame(n int) image.Rectangle {
	x := e.FW * n
	return image.Rect(x, 0, x+e.FW, e.FH)
}

func (e ViewExtent) Frames() []image.Rectangle {
	frames := make([]image.Rectangle, e.NFrames)
	for i := range frames {
		frames[i] = e.Frame(i)
	}
	return frames
}

// ToFrame converts a view coordinate to the index of the frame containing it.
// Points left of the view, past its right edge, or a zero frame width report false.
func (e ViewExtent) ToFrame(p image.Point) (int, bool) {
	if e.FW <= 0 || p.X < 0 || p.X >= e.Width() {
		return 0, false
	}
	return p.X / e.FW, true
}

// Animation is a circular cursor over a non-empty sequence of frames.
type Animation struct {
	frames []image.Rectangle
	index  int
}

func NewAnimation(frames []image.Rectangle) *Animation {
	if len(frames) == 0 {
		panic("animation: empty frame sequence")
	}
	return &Animation{frames: append([]image.Rectangle(nil), frames...)}
}

func (a *Animation) Len() int {
	return len(a.frames)
}

func (a *Animation) Index() int {
	return a.index
}

func (a *Animation) Val() image.Rectangle {
	return a.frames[a.index]
}

func (a *Animation) Step() {
	a.index = (a.index + 1) % len(a.frames)
}

func (a *Animation) PushFrame(r image.Rectangle) {
	a.frames = append(a.frames, r)
}

// PopFrame drops the last frame. The last remaining frame is never removed.
func (a *Animation) PopFrame() bool {
	if len(a.frames) <= 1 {
		return false
	}
	a.frames = a.frames[:len(a.frames)-1]
	if a.index >= len(a.frames) {
		a.index = len(a.frames) - 1
	}
	return true
}

func (a *Animation) Frames() []image.Rectangle {
	return append([]image.Rectangle(nil), a.frames...)
}
