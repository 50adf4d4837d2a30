package main

import "fmt"

// ViewState records what has to be resynchronized with the renderer.
// Values are built with the constructors below; the zero value is Okay.
type ViewState struct {
	kind   StateKind
	extent *ViewExtent
	layer  LayerID
}

func StateOkay() ViewState {
	return ViewState{kind: StateKindOkay}
}

// StateDirty marks changed pixels. A non-nil extent means the geometry changed too.
func StateDirty(extent *ViewExtent) ViewState {
	return ViewState{kind: StateKindDirty, extent: copyExtent(extent)}
}

// StateDamaged means the view must be restored from a snapshot.
func StateDamaged(extent *ViewExtent) ViewState {
	return ViewState{kind: StateKindDamaged, extent: copyExtent(extent)}
}

func StateLayerDirty(id LayerID) ViewState {
	return ViewState{kind: StateKindLayerDirty, layer: id}
}

func StateLayerDamaged(id LayerID) ViewState {
	return ViewState{kind: StateKindLayerDamaged, layer: id}
}

func copyExtent(e *ViewExtent) *ViewExtent {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

func (s ViewState) Kind() StateKind {
	return s.kind
}

// Extent is only set for Dirty and Damaged states.
func (s ViewState) Extent() (ViewExtent, bool) {
	if s.extent == nil {
		return ViewExtent{}, false
	}
	return *s.extent, true
}

// Layer is only meaningful for LayerDirty and LayerDamaged states.
func (s ViewState) Layer() (LayerID, bool) {
	switch s.kind {
	case StateKindLayerDirty, StateKindLayerDamaged:
		return s.layer, true
	}
	return 0, false
}

func (s ViewState) Equal(o ViewState) bool {
	if s.kind != o.kind || s.layer != o.layer {
		return false
	}
	if (s.extent == nil) != (o.extent == nil) {
		return false
	}
	return s.extent == nil || *s.extent == *o.extent
}

func (s ViewState) String() string {
	switch s.kind {
	case StateKindDirty, StateKindDamaged:
		if s.extent != nil {
			return fmt.Sprintf("%s(%dx%dx%d)", s.kind, s.extent.FW, s.extent.FH, s.extent.NFrames)
		}
		return s.kind.String()
	case StateKindLayerDirty, StateKindLayerDamaged:
		return fmt.Sprintf("%s(%d)", s.kind, s.layer)
	}
	return s.kind.String()
}

// State transitions. Once a view has left Okay, further touches are coalesced
// into the existing state; explicit damage always overwrites it.

// Touch records a pixel change across the view.
func (v *View) Touch() {
	v.touchStatus()
	if v.state.kind == StateKindOkay {
		v.state = StateDirty(nil)
	}
}

// TouchLayer records a pixel change on the active layer.
func (v *View) TouchLayer() {
	v.touchStatus()
	if v.state.kind == StateKindOkay {
		v.state = StateLayerDirty(v.activeLayer)
	}
}

// resized is called after every geometry change.
func (v *View) resized() {
	v.touchStatus()
	if v.state.kind == StateKindOkay {
		ext := v.Extent()
		v.state = StateDirty(&ext)
	}
	v.ops.Push(OpResize{Width: v.Width(), Height: v.Height()})
}

// Damaged forces a full restore of the view, optionally at a new extent.
func (v *View) Damaged(extent *ViewExtent) {
	v.state = StateDamaged(extent)
}

// LayerDamaged forces a restore of a single layer.
func (v *View) LayerDamaged(id LayerID) {
	v.state = StateLayerDamaged(id)
}

// Okay is called by the renderer once the queue for this tick is processed.
func (v *View) Okay() {
	v.state = StateOkay()
}

func (v *View) State() ViewState {
	return v.state
}

func (v *View) IsOkay() bool {
	return v.state.kind == StateKindOkay
}

// IsDirty reports pending pixel changes, view-wide or on a single layer.
func (v *View) IsDirty() bool {
	return v.state.kind == StateKindDirty || v.state.kind == StateKindLayerDirty
}

// IsDamaged reports a pending restore, view-wide or on a single layer.
func (v *View) IsDamaged() bool {
	return v.state.kind == StateKindDamaged || v.state.kind == StateKindLayerDamaged
}

func (v *View) IsLayerDirty() bool {
	return v.state.kind == StateKindLayerDirty
}

func (v *View) IsLayerDamaged() bool {
	return v.state.kind == StateKindLayerDamaged
}

// IsResized reports a geometry change made by an edit. Restores carry their
// extent in the damaged state and are not resizes.
func (v *View) IsResized() bool {
	return v.state.kind == StateKindDirty && v.state.extent != nil
}

// touchStatus flips a saved document to modified.
func (v *View) touchStatus() {
	if storage, ok := v.fileStatus.SavedStorage(); ok {
		v.fileStatus = FileModified(storage)
	}
}
