package main

import (
	"errors"
	"image"
	"image/color"
)

var (
	// ErrFileExists is returned when a save would clobber a file that does not
	// belong to the document.
	ErrFileExists = errors.New("file already exists")
	// ErrRangeMultiLayer is returned when saving a multi-layer view as a file range.
	ErrRangeMultiLayer = errors.New("multi-layer views cannot be saved as a file range")
	// ErrFrameCountMismatch is returned when a file range does not have one path per frame.
	ErrFrameCountMismatch = errors.New("file range does not match frame count")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrNotArchive         = errors.New("not a sprite archive")
	ErrNoSnapshot         = errors.New("no snapshot for layer")
)

// Edit is one recorded change in a view's history. IDs are unique within a
// history and increase with every recorded edit.
type Edit struct {
	ID    EditID
	Kind  EditKind
	Layer LayerID
	From  ViewExtent
	To    ViewExtent
}

// Snapshot describes an immutable capture of a layer's pixels.
type Snapshot struct {
	ID     EditID
	Layer  LayerID
	Extent ViewExtent
}

// Resource is the per-view snapshot and edit-history store. Views only ever
// reach their pixels and history through it.
type Resource interface {
	// AddLayer records a new layer with its initial pixels and returns the edit id.
	AddLayer(id LayerID, extent ViewExtent, pixels []color.RGBA) EditID
	// CurrentSnapshot returns the layer's snapshot at the history cursor.
	CurrentSnapshot(id LayerID) (Snapshot, []color.RGBA, bool)
	// SnapshotRect returns the pixels of r from the layer's current snapshot.
	SnapshotRect(id LayerID, r image.Rectangle) (Snapshot, []color.RGBA, bool)
	// HistoryPrev steps the cursor back, returning the new cursor and the undone edit.
	HistoryPrev() (EditID, Edit, bool)
	// HistoryNext steps the cursor forward, returning the new cursor and the redone edit.
	HistoryNext() (EditID, Edit, bool)
	// SaveArchive writes every layer to a single archive file and returns the bytes written.
	SaveArchive(path string) (int, error)
	// CurrentEdit is the id of the edit at the cursor; the initial state is 0.
	CurrentEdit() EditID
	// Cursor is the position in the history, counting from the initial state.
	Cursor() int
}
