package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewState_Accessors(t *testing.T) {
	ext := NewViewExtent(8, 8, 2)

	dirty := StateDirty(&ext)
	got, ok := dirty.Extent()
	assert.True(t, ok)
	assert.Equal(t, ext, got)
	_, ok = dirty.Layer()
	assert.False(t, ok)
	assert.Equal(t, "Dirty(8x8x2)", dirty.String())

	ext.NFrames = 5
	got, _ = dirty.Extent()
	assert.Equal(t, 2, got.NFrames, "state keeps its own copy of the extent")

	layer := StateLayerDamaged(3)
	id, ok := layer.Layer()
	assert.True(t, ok)
	assert.Equal(t, LayerID(3), id)
	assert.Equal(t, "LayerDamaged(3)", layer.String())

	assert.True(t, StateOkay().Equal(ViewState{}))
	assert.False(t, StateDirty(nil).Equal(StateDamaged(nil)))
	assert.False(t, StateDirty(nil).Equal(StateDirty(&ext)))
}

func TestView_TouchCoalesces(t *testing.T) {
	v := newTestView(FileNoFile(), NewViewExtent(4, 4, 1))

	v.Touch()
	assert.True(t, v.State().Equal(StateDirty(nil)))
	assert.False(t, v.IsResized())

	v.TouchLayer()
	assert.True(t, v.IsDirty(), "layer touch does not downgrade a view-wide dirty state")

	v.Okay()
	v.TouchLayer()
	assert.True(t, v.State().Equal(StateLayerDirty(0)))
	assert.True(t, v.IsDirty(), "layer changes count as dirty")
	assert.False(t, v.IsResized())
	v.Touch()
	assert.True(t, v.IsLayerDirty())
}

func TestView_DamageOverwrites(t *testing.T) {
	v := newTestView(FileNoFile(), NewViewExtent(4, 4, 1))

	v.TouchLayer()
	v.Damaged(nil)
	assert.True(t, v.IsDamaged())

	v.LayerDamaged(0)
	assert.True(t, v.IsLayerDamaged())
	assert.True(t, v.IsDamaged(), "layer damage counts as damage")
	assert.False(t, v.IsDirty())

	ext := NewViewExtent(4, 4, 2)
	v.Damaged(&ext)
	assert.True(t, v.IsDamaged())
	assert.False(t, v.IsResized(), "a restore at a new extent is not a resize")
	got, ok := v.State().Extent()
	assert.True(t, ok)
	assert.Equal(t, ext, got)
}

func TestView_TouchMarksSavedModified(t *testing.T) {
	storage := StorageSingle("sprite.png")
	v := newTestView(FileSaved(storage), NewViewExtent(4, 4, 1))

	v.Touch()
	assert.True(t, v.FileStatus().Equal(FileModified(storage)))

	n := newTestView(FileNew(storage), NewViewExtent(4, 4, 1))
	n.Touch()
	assert.True(t, n.FileStatus().Equal(FileNew(storage)), "only saved documents become modified")
}

func TestView_ResizeQueuesOp(t *testing.T) {
	v := newTestView(FileNoFile(), NewViewExtent(8, 8, 1))

	v.Extend()
	ext := NewViewExtent(8, 8, 2)
	assert.True(t, v.State().Equal(StateDirty(&ext)))
	assert.True(t, v.IsResized())
	assert.Equal(t, []ViewOp{OpResize{Width: 16, Height: 8}}, v.Ops())

	v.Extend()
	assert.True(t, v.State().Equal(StateDirty(&ext)), "the first resize wins until the renderer catches up")
	assert.Len(t, v.DrainOps(), 2)
	assert.Empty(t, v.Ops())
}
