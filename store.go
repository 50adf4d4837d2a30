package main

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"slices"
)

type layerSnapshot struct {
	Snapshot
	pixels []color.RGBA
}

// Store is the in-memory Resource: a linear edit history plus, for every
// layer, the snapshots taken at the edits that touched it.
//
// Edit ids are never reused. Recording after an undo drops the redo branch,
// and the next edit gets a fresh id, so an id saved to disk can't come back
// attached to different pixels.
type Store struct {
	history []Edit
	cursor  int // index into history
	nextID  EditID
	layers  map[LayerID][]layerSnapshot
}

// NewStore starts a history at the initial edit with one snapshot per layer.
// With no layers given, a single transparent layer is created.
func NewStore(extent ViewExtent, layers ...[]color.RGBA) *Store {
	if len(layers) == 0 {
		layers = [][]color.RGBA{make([]color.RGBA, extent.Area())}
	}
	s := &Store{
		history: []Edit{{ID: 0, Kind: EditInitial, To: extent}},
		nextID:  1,
		layers:  make(map[LayerID][]layerSnapshot),
	}
	for i, pixels := range layers {
		s.push(LayerID(i), extent, pixels)
	}
	return s
}

func (s *Store) push(id LayerID, extent ViewExtent, pixels []color.RGBA) {
	if len(pixels) != extent.Area() {
		panic(fmt.Sprintf("store: layer %d has %d pixels, extent needs %d", id, len(pixels), extent.Area()))
	}
	s.layers[id] = append(s.layers[id], layerSnapshot{
		Snapshot: Snapshot{ID: s.CurrentEdit(), Layer: id, Extent: extent},
		pixels:   slices.Clone(pixels),
	})
}

// record appends an edit at the cursor, discarding anything that was undone.
func (s *Store) record(e Edit) EditID {
	if s.cursor < len(s.history)-1 {
		s.history = s.history[:s.cursor+1]
		head := s.CurrentEdit()
		for id, snaps := range s.layers {
			snaps = slices.DeleteFunc(snaps, func(sn layerSnapshot) bool { return sn.ID > head })
			if len(snaps) == 0 {
				delete(s.layers, id)
				continue
			}
			s.layers[id] = snaps
		}
	}
	e.ID = s.nextID
	s.nextID++
	s.history = append(s.history, e)
	s.cursor = len(s.history) - 1
	slog.Debug("edit recorded", "edit", e.ID, "kind", e.Kind.String(), "layer", e.Layer)
	return e.ID
}

func (s *Store) AddLayer(id LayerID, extent ViewExtent, pixels []color.RGBA) EditID {
	eid := s.record(Edit{Kind: EditLayerAdded, Layer: id, To: extent})
	s.push(id, extent, pixels)
	return eid
}

func (s *Store) RecordLayerPainted(id LayerID, extent ViewExtent, pixels []color.RGBA) EditID {
	eid := s.record(Edit{Kind: EditLayerPainted, Layer: id, To: extent})
	s.push(id, extent, pixels)
	return eid
}

// RecordViewPainted snapshots every layer; layers[i] holds layer i's pixels.
func (s *Store) RecordViewPainted(extent ViewExtent, layers [][]color.RGBA) EditID {
	eid := s.record(Edit{Kind: EditViewPainted, From: extent, To: extent})
	for i, pixels := range layers {
		s.push(LayerID(i), extent, pixels)
	}
	return eid
}

func (s *Store) RecordViewResized(from, to ViewExtent, layers [][]color.RGBA) EditID {
	eid := s.record(Edit{Kind: EditViewResized, From: from, To: to})
	for i, pixels := range layers {
		s.push(LayerID(i), to, pixels)
	}
	return eid
}

func (s *Store) current(id LayerID) (layerSnapshot, bool) {
	snaps := s.layers[id]
	head := s.CurrentEdit()
	for i := len(snaps) - 1; i >= 0; i-- {
		if snaps[i].ID <= head {
			return snaps[i], true
		}
	}
	return layerSnapshot{}, false
}

func (s *Store) CurrentSnapshot(id LayerID) (Snapshot, []color.RGBA, bool) {
	snap, ok := s.current(id)
	if !ok {
		return Snapshot{}, nil, false
	}
	return snap.Snapshot, slices.Clone(snap.pixels), true
}

func (s *Store) SnapshotRect(id LayerID, r image.Rectangle) (Snapshot, []color.RGBA, bool) {
	snap, ok := s.current(id)
	if !ok || !r.In(snap.Extent.Bounds()) {
		return Snapshot{}, nil, false
	}
	w := snap.Extent.Width()
	out := make([]color.RGBA, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		out = append(out, snap.pixels[y*w+r.Min.X:y*w+r.Max.X]...)
	}
	return snap.Snapshot, out, true
}

// HistoryPrev undoes the edit at the cursor. It returns the id of the edit
// now current and the edit that was undone.
func (s *Store) HistoryPrev() (EditID, Edit, bool) {
	if s.cursor == 0 {
		return 0, Edit{}, false
	}
	edit := s.history[s.cursor]
	s.cursor--
	return s.CurrentEdit(), edit, true
}

func (s *Store) HistoryNext() (EditID, Edit, bool) {
	if s.cursor >= len(s.history)-1 {
		return 0, Edit{}, false
	}
	s.cursor++
	return s.CurrentEdit(), s.history[s.cursor], true
}

// CurrentEdit is the id of the edit at the cursor.
func (s *Store) CurrentEdit() EditID {
	return s.history[s.cursor].ID
}

// Cursor is the position of the cursor in the history, 0 being the initial state.
func (s *Store) Cursor() int {
	return s.cursor
}

// Len is the number of edits in the history, including the initial one.
func (s *Store) Len() int {
	return len(s.history)
}

// LayerIDs lists the layers that exist at the cursor.
func (s *Store) LayerIDs() []LayerID {
	var ids []LayerID
	for id := range s.layers {
		if _, ok := s.current(id); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) SaveArchive(path string) (int, error) {
	ids := s.LayerIDs()
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w 0", ErrNoSnapshot)
	}
	base, _ := s.current(ids[0])
	layers := make([][]color.RGBA, len(ids))
	for i, id := range ids {
		snap, _ := s.current(id)
		if snap.Extent != base.Extent {
			return 0, fmt.Errorf("layer %d extent %+v differs from %+v", id, snap.Extent, base.Extent)
		}
		layers[i] = snap.pixels
	}
	return writeArchive(path, base.Extent, layers)
}
