package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addBlank(m *ViewManager) ViewID {
	return newBlankView(m, FileNoFile(), NewViewExtent(4, 4, 1))
}

func TestViewManager_AddDoesNotActivate(t *testing.T) {
	m := NewViewManager(4)
	assert.True(t, m.IsEmpty())
	assert.Nil(t, m.Active())

	a := addBlank(m)
	b := addBlank(m)
	assert.Equal(t, ViewID(1), a)
	assert.Equal(t, ViewID(2), b)
	assert.Equal(t, ViewID(0), m.ActiveID())
	assert.Equal(t, 2, m.Len())

	m.Activate(b)
	require.NotNil(t, m.Active())
	assert.Equal(t, b, m.Active().ID)

	assert.Panics(t, func() { m.Activate(99) })
}

func TestViewManager_RemovePicksRecent(t *testing.T) {
	m := NewViewManager(4)
	a, b, c := addBlank(m), addBlank(m), addBlank(m)

	m.Activate(b)
	m.Activate(c)
	m.Remove(c)
	assert.Equal(t, b, m.ActiveID(), "most recently used view takes over")

	m.Remove(b)
	assert.Equal(t, a, m.ActiveID(), "falls back to the first view")

	m.Remove(a)
	assert.Equal(t, ViewID(0), m.ActiveID())
	assert.Nil(t, m.Active())

	d := addBlank(m)
	assert.Equal(t, ViewID(4), d, "ids are never reused")
}

func TestViewManager_LRU(t *testing.T) {
	m := NewViewManager(2)
	a, b, c := addBlank(m), addBlank(m), addBlank(m)

	m.Activate(a)
	m.Activate(b)
	m.Activate(a)
	assert.Equal(t, []ViewID{a, b}, m.RecentIDs())

	m.Activate(a)
	assert.Equal(t, []ViewID{a, b}, m.RecentIDs())

	m.Activate(c)
	assert.Equal(t, []ViewID{c, a}, m.RecentIDs(), "history is capped")

	recent, ok := m.Recent()
	assert.True(t, ok)
	assert.Equal(t, c, recent)
}

func TestViewManager_Ordering(t *testing.T) {
	m := NewViewManager(4)
	a, b, c := addBlank(m), addBlank(m), addBlank(m)
	m.Remove(b)

	assert.Equal(t, []ViewID{a, c}, m.IDs())
	first, _ := m.First()
	last, _ := m.Last()
	assert.Equal(t, a, first)
	assert.Equal(t, c, last)

	next, ok := m.After(a)
	assert.True(t, ok)
	assert.Equal(t, c, next)
	_, ok = m.After(c)
	assert.False(t, ok)

	prev, ok := m.Before(c)
	assert.True(t, ok)
	assert.Equal(t, a, prev)
	_, ok = m.Before(a)
	assert.False(t, ok)

	views := m.Views()
	require.Len(t, views, 2)
	assert.Equal(t, c, views[1].ID)
}

func TestViewManager_Snapshot(t *testing.T) {
	m := NewViewManager(4)
	id := addBlank(m)

	snap, pixels, ok := m.Snapshot(id, 0)
	assert.True(t, ok)
	assert.Equal(t, EditID(0), snap.ID)
	assert.Len(t, pixels, 16)

	_, _, ok = m.Snapshot(id, 1)
	assert.False(t, ok)
	_, _, ok = m.Snapshot(42, 0)
	assert.False(t, ok)

	assert.NotPanics(t, func() { m.MustSnapshot(id, 0) })
	assert.Panics(t, func() { m.MustSnapshot(42, 0) })
}

func TestModel_SwitchViewWraps(t *testing.T) {
	config := defaultConfig()
	config.StartMenu = false
	m := initialModel(config, nil)
	first := m.views.ActiveID()
	m.newView()
	second := m.views.ActiveID()

	m.switchView(Forward)
	assert.Equal(t, first, m.views.ActiveID())
	m.switchView(Backward)
	assert.Equal(t, second, m.views.ActiveID())

	m.closeView(second)
	assert.Equal(t, first, m.views.ActiveID())
	m.closeView(first)
	assert.Equal(t, ModeStartup, m.mode)
}

func TestViewManager_SnapshotRect(t *testing.T) {
	m := NewViewManager(4)
	id := addBlank(m)

	snap, pixels, ok := m.SnapshotRect(id, 0, image.Rect(1, 1, 3, 3))
	require.True(t, ok)
	assert.Equal(t, EditID(0), snap.ID)
	assert.Len(t, pixels, 4)

	_, _, ok = m.SnapshotRect(id, 0, image.Rect(2, 2, 6, 6))
	assert.False(t, ok, "rectangle outside the layer")

	assert.Panics(t, func() { m.SnapshotRect(42, 0, image.Rect(0, 0, 1, 1)) })
	assert.Panics(t, func() { m.SnapshotRect(id, 3, image.Rect(0, 0, 1, 1)) })
}

func TestModel_PickColor(t *testing.T) {
	config := defaultConfig()
	config.StartMenu = false
	m := initialModel(config, nil)
	m.canvas = newTestCanvas()
	v := m.getCurrentView()
	require.NotNil(t, v)

	m.pickColor(v)
	assert.Equal(t, "Nothing to pick here", m.errorMessage)

	known := m.colors[2]
	v.Paint(m.cursor, known)
	m.sync()
	m.pickColor(v)
	assert.Equal(t, 2, m.colorIndex)

	n := len(m.colors)
	custom := color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
	v.Paint(m.cursor, custom)
	m.sync()
	m.pickColor(v)
	require.Len(t, m.colors, n+1)
	assert.Equal(t, custom, m.colors[m.colorIndex])
	assert.Contains(t, m.successMessage, "layer 1")
}
