package main

import "fmt"

// FrameRange declares which frames a layer covers.
type FrameRange int

const (
	FrameRangeFull FrameRange = iota
)

type Layer struct {
	Index  LayerID
	Frames FrameRange
	Hidden bool
}

func NewLayer(index LayerID, frames FrameRange) *Layer {
	return &Layer{Index: index, Frames: frames}
}

// Layers is an ordered layer collection that is never empty. A layer's id is
// its position.
type Layers struct {
	items []*Layer
}

func NewLayers(first *Layer) *Layers {
	if first == nil {
		panic("layers: nil first layer")
	}
	return &Layers{items: []*Layer{first}}
}

func (l *Layers) Len() int {
	return len(l.items)
}

func (l *Layers) Get(id LayerID) (*Layer, bool) {
	if id < 0 || int(id) >= len(l.items) {
		return nil, false
	}
	return l.items[id], true
}

func (l *Layers) Last() *Layer {
	return l.items[len(l.items)-1]
}

func (l *Layers) Push(layer *Layer) {
	if int(layer.Index) != len(l.items) {
		panic(fmt.Sprintf("layers: pushing layer %d at position %d", layer.Index, len(l.items)))
	}
	l.items = append(l.items, layer)
}

// Pop removes the last layer. Popping the only layer panics.
func (l *Layers) Pop() *Layer {
	if len(l.items) == 1 {
		panic("layers: cannot remove the only layer")
	}
	last := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return last
}

func (l *Layers) All() []*Layer {
	return append([]*Layer(nil), l.items...)
}
