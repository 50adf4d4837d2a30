package main

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log/slog"
	"os"
)

// newBlankView adds an empty one-layer view.
func newBlankView(views *ViewManager, status FileStatus, extent ViewExtent) ViewID {
	return views.Add(status, extent, 1, NewStore(extent))
}

// openView loads an archive or a single image into a new view. A path that
// does not exist yet becomes a new, empty document bound to that path.
func openView(views *ViewManager, path string, fw, fh int) (ViewID, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		id := newBlankView(views, FileNew(StorageSingle(path)), NewViewExtent(fw, fh, 1))
		slog.Info("new file", "view", id, "path", path)
		return id, nil
	}
	if isArchive(path) {
		extent, layers, err := readArchive(path)
		if err != nil {
			return 0, err
		}
		id := views.Add(FileSaved(StorageSingle(path)), extent, len(layers), NewStore(extent, layers...))
		slog.Info("archive opened", "view", id, "path", path, "layers", len(layers))
		return id, nil
	}
	img, err := decodeImage(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	w, h, pixels := pixelsFromImage(img)
	extent := NewViewExtent(w, h, 1)
	id := views.Add(FileSaved(StorageSingle(path)), extent, 1, NewStore(extent, pixels))
	slog.Info("image opened", "view", id, "path", path, "width", w, "height", h)
	return id, nil
}

// openRange loads one image per frame. Every image must have the same size.
func openRange(views *ViewManager, paths []string) (ViewID, error) {
	if len(paths) == 0 {
		return 0, errors.New("open range: no paths")
	}
	var (
		fw, fh int
		frames [][]color.RGBA
	)
	for i, path := range paths {
		img, err := decodeImage(path)
		if err != nil {
			return 0, fmt.Errorf("open %s: %w", path, err)
		}
		w, h, pixels := pixelsFromImage(img)
		if i == 0 {
			fw, fh = w, h
		} else if w != fw || h != fh {
			return 0, fmt.Errorf("open %s: frame is %dx%d, expected %dx%d", path, w, h, fw, fh)
		}
		frames = append(frames, pixels)
	}

	extent := NewViewExtent(fw, fh, len(frames))
	total := extent.Width()
	pixels := make([]color.RGBA, extent.Area())
	for n, frame := range frames {
		for y := 0; y < fh; y++ {
			copy(pixels[y*total+n*fw:y*total+n*fw+fw], frame[y*fw:y*fw+fw])
		}
	}
	id := views.Add(FileSaved(StorageRange(paths...)), extent, 1, NewStore(extent, pixels))
	slog.Info("range opened", "view", id, "frames", len(frames))
	return id, nil
}
