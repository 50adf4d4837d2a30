package main

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"slices"
)

// ViewManager owns every open view. Views never refer back to it.
type ViewManager struct {
	views    map[ViewID]*View
	lastID   ViewID
	activeID ViewID
	lru      []ViewID // most recently activated first
	maxViews int
}

func NewViewManager(maxViews int) *ViewManager {
	if maxViews < 1 {
		maxViews = defaultMaxViews
	}
	return &ViewManager{
		views:    make(map[ViewID]*View),
		maxViews: maxViews,
	}
}

func (m *ViewManager) genID() ViewID {
	m.lastID++
	return m.lastID
}

// Add creates a view and returns its id. The view is not activated.
func (m *ViewManager) Add(fs FileStatus, extent ViewExtent, nlayers int, res Resource) ViewID {
	id := m.genID()
	m.views[id] = NewView(id, fs, extent, nlayers, res)
	slog.Debug("view added", "view", id, "status", fs.String())
	return id
}

// Remove drops a view and picks a new active view: the most recently used one
// left, else the first, else none.
func (m *ViewManager) Remove(id ViewID) {
	delete(m.views, id)
	m.lru = slices.DeleteFunc(m.lru, func(v ViewID) bool { return v == id })

	m.activeID = 0
	if recent, ok := m.Recent(); ok {
		m.activeID = recent
	} else if first, ok := m.First(); ok {
		m.activeID = first
	}
	slog.Debug("view removed", "view", id, "active", m.activeID)
}

func (m *ViewManager) Get(id ViewID) (*View, bool) {
	v, ok := m.views[id]
	return v, ok
}

func (m *ViewManager) ActiveID() ViewID {
	return m.activeID
}

// Active returns the active view, or nil when there is none.
func (m *ViewManager) Active() *View {
	return m.views[m.activeID]
}

// Activate makes id the active view. Activating a view that does not exist
// is a programming error.
func (m *ViewManager) Activate(id ViewID) {
	if _, ok := m.views[id]; !ok {
		panic(fmt.Sprintf("view manager: activating unknown view %d", id))
	}
	if m.activeID == id {
		return
	}
	m.activeID = id
	m.lru = slices.DeleteFunc(m.lru, func(v ViewID) bool { return v == id })
	m.lru = slices.Insert(m.lru, 0, id)
	if len(m.lru) > m.maxViews {
		m.lru = m.lru[:m.maxViews]
	}
}

// Recent returns the most recently activated view still open.
func (m *ViewManager) Recent() (ViewID, bool) {
	if len(m.lru) == 0 {
		return 0, false
	}
	return m.lru[0], true
}

// RecentIDs lists views by activation order, most recent first.
func (m *ViewManager) RecentIDs() []ViewID {
	return slices.Clone(m.lru)
}

func (m *ViewManager) Len() int {
	return len(m.views)
}

func (m *ViewManager) IsEmpty() bool {
	return len(m.views) == 0
}

// IDs returns the view ids in ascending order.
func (m *ViewManager) IDs() []ViewID {
	ids := make([]ViewID, 0, len(m.views))
	for id := range m.views {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Views returns the views in ascending id order.
func (m *ViewManager) Views() []*View {
	ids := m.IDs()
	views := make([]*View, len(ids))
	for i, id := range ids {
		views[i] = m.views[id]
	}
	return views
}

func (m *ViewManager) First() (ViewID, bool) {
	ids := m.IDs()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

func (m *ViewManager) Last() (ViewID, bool) {
	ids := m.IDs()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[len(ids)-1], true
}

// After returns the first view with an id greater than id.
func (m *ViewManager) After(id ViewID) (ViewID, bool) {
	for _, other := range m.IDs() {
		if other > id {
			return other, true
		}
	}
	return 0, false
}

// Before returns the last view with an id smaller than id.
func (m *ViewManager) Before(id ViewID) (ViewID, bool) {
	ids := m.IDs()
	for i := len(ids) - 1; i >= 0; i-- {
		if ids[i] < id {
			return ids[i], true
		}
	}
	return 0, false
}

// Snapshot reads a layer's current snapshot through the view's resource.
func (m *ViewManager) Snapshot(id ViewID, layer LayerID) (Snapshot, []color.RGBA, bool) {
	v, ok := m.views[id]
	if !ok {
		return Snapshot{}, nil, false
	}
	if _, ok := v.Layer(layer); !ok {
		return Snapshot{}, nil, false
	}
	return v.resource.CurrentSnapshot(layer)
}

// MustSnapshot is Snapshot for callers that have already checked the view and
// layer exist. A miss is a programming error.
func (m *ViewManager) MustSnapshot(id ViewID, layer LayerID) (Snapshot, []color.RGBA) {
	snap, pixels, ok := m.Snapshot(id, layer)
	if !ok {
		panic(fmt.Sprintf("view manager: no snapshot for view %d layer %d", id, layer))
	}
	return snap, pixels
}

// SnapshotRect crops a layer's current snapshot. The view and layer must
// exist; ok is false only when r does not fit the snapshot.
func (m *ViewManager) SnapshotRect(id ViewID, layer LayerID, r image.Rectangle) (Snapshot, []color.RGBA, bool) {
	v, ok := m.views[id]
	if !ok {
		panic(fmt.Sprintf("view manager: no view %d", id))
	}
	if _, ok := v.Layer(layer); !ok {
		panic(fmt.Sprintf("view manager: view %d has no layer %d", id, layer))
	}
	return v.resource.SnapshotRect(layer, r)
}
