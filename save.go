package main

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SaveResult reports the edit a save corresponds to and how much was written:
// pixels for image files, bytes for archives.
type SaveResult struct {
	Edit    EditID
	Written int
}

// SaveAs writes the view to storage. A single path holds either one image (one
// layer) or an archive (several layers, or any .spx path); a range holds one
// image per frame.
//
// The file status only follows the save when the document had no file yet, or
// when the save went to the document's own storage. Saving elsewhere is an
// export and leaves the document bound to its file.
func (v *View) SaveAs(storage FileStorage) (SaveResult, error) {
	var (
		res SaveResult
		err error
	)
	if storage.IsRange() {
		res, err = v.saveRange(storage.Paths())
	} else {
		res, err = v.saveSingle(storage.Path())
	}
	if err != nil {
		slog.Warn("save failed", "view", v.ID, "storage", storage.String(), "err", err)
		return SaveResult{}, err
	}

	switch v.fileStatus.Kind() {
	case FileStatusNoFile:
		v.adoptSaved(storage, res.Edit)
	case FileStatusNew, FileStatusModified:
		if current, _ := v.fileStatus.Storage(); current.Equal(storage) {
			v.adoptSaved(storage, res.Edit)
		}
	}
	slog.Info("view saved", "view", v.ID, "storage", storage.String(), "edit", res.Edit, "written", res.Written)
	return res, nil
}

func (v *View) saveSingle(path string) (SaveResult, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return SaveResult{}, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if v.layers.Len() > 1 || strings.EqualFold(filepath.Ext(path), archiveExt) {
		if err := v.checkOverwrite(path); err != nil {
			return SaveResult{}, err
		}
		n, err := v.resource.SaveArchive(path)
		if err != nil {
			return SaveResult{}, fmt.Errorf("save archive %s: %w", path, err)
		}
		return SaveResult{Edit: v.resource.CurrentEdit(), Written: n}, nil
	}
	eid, n, err := v.SaveLayerRectAs(0, v.Bounds(), path)
	if err != nil {
		return SaveResult{}, err
	}
	return SaveResult{Edit: eid, Written: n}, nil
}

func (v *View) saveRange(paths []string) (SaveResult, error) {
	if v.layers.Len() > 1 {
		return SaveResult{}, ErrRangeMultiLayer
	}
	ext := v.Extent()
	if len(paths) != ext.NFrames {
		return SaveResult{}, fmt.Errorf("%w: %d paths for %d frames", ErrFrameCountMismatch, len(paths), ext.NFrames)
	}
	// Refuse up front so a refusal never leaves a partially written range.
	for _, p := range paths {
		if err := v.checkOverwrite(p); err != nil {
			return SaveResult{}, err
		}
	}
	written := 0
	for i, p := range paths {
		_, n, err := v.SaveLayerRectAs(0, ext.Frame(i), p)
		if err != nil {
			return SaveResult{}, err
		}
		written += n
	}
	return SaveResult{Edit: v.resource.CurrentEdit(), Written: written}, nil
}

// SaveLayerRectAs writes region r of a layer to a single image file. It refuses
// to overwrite an existing file unless that file is part of this document.
func (v *View) SaveLayerRectAs(layer LayerID, r image.Rectangle, path string) (EditID, int, error) {
	if err := v.checkOverwrite(path); err != nil {
		return 0, 0, err
	}
	snap, pixels, ok := v.resource.SnapshotRect(layer, r)
	if !ok {
		return 0, 0, fmt.Errorf("%w %d in view %d", ErrNoSnapshot, layer, v.ID)
	}
	if err := encodeImage(path, imageFromPixels(r.Dx(), r.Dy(), pixels)); err != nil {
		return 0, 0, fmt.Errorf("save %s: %w", path, err)
	}
	return snap.ID, len(pixels), nil
}

func (v *View) checkOverwrite(path string) error {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if storage, ok := v.fileStatus.Storage(); ok && storage.Contains(path) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrFileExists, path)
}

func (v *View) adoptSaved(storage FileStorage, eid EditID) {
	v.fileStatus = FileSaved(storage)
	v.savedSnapshot = eid
	v.hasSavedSnapshot = true
}

// refreshFileStatus reconciles the file status after the history cursor moved
// to eid. New and NoFile documents have nothing on disk to compare against.
func (v *View) refreshFileStatus(eid EditID) {
	switch v.fileStatus.Kind() {
	case FileStatusModified:
		if v.hasSavedSnapshot && eid == v.savedSnapshot {
			storage, _ := v.fileStatus.Storage()
			v.fileStatus = FileSaved(storage)
		}
	case FileStatusSaved:
		storage, _ := v.fileStatus.Storage()
		v.fileStatus = FileModified(storage)
	}
}
