package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const archiveVersion = 1

// Multi-layer documents are stored as a small SQLite database.
const archiveSchema = `
CREATE TABLE IF NOT EXISTS meta (
    version       INTEGER NOT NULL,
    frame_width   INTEGER NOT NULL,
    frame_height  INTEGER NOT NULL,
    frames        INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS layers (
    id      INTEGER PRIMARY KEY,
    pixels  BLOB NOT NULL
);
`

var sqliteMagic = []byte("SQLite format 3\x00")

// writeArchive replaces path with an archive holding every layer and returns
// the size of the written file. The archive is built next to path and renamed
// over it once complete, so a failed write leaves the old file in place.
func writeArchive(path string, extent ViewExtent, layers [][]color.RGBA) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("create archive: %w", err)
	}
	if err := buildArchive(tmpPath, extent, layers); err != nil {
		os.Remove(tmpPath)
		return 0, err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("create archive: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("replace archive: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat archive: %w", err)
	}
	return int(info.Size()), nil
}

func buildArchive(path string, extent ViewExtent, layers [][]color.RGBA) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	if err := fillArchive(db, extent, layers); err != nil {
		db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

func fillArchive(db *sql.DB, extent ViewExtent, layers [][]color.RGBA) error {
	if _, err := db.Exec(archiveSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO meta (version, frame_width, frame_height, frames) VALUES (?, ?, ?, ?)`,
		archiveVersion, extent.FW, extent.FH, extent.NFrames); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}
	for i, pixels := range layers {
		if len(pixels) != extent.Area() {
			return fmt.Errorf("layer %d: %d pixels, want %d", i, len(pixels), extent.Area())
		}
		if _, err := tx.Exec(`INSERT INTO layers (id, pixels) VALUES (?, ?)`, i, packPixels(pixels)); err != nil {
			return fmt.Errorf("insert layer %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// readArchive loads the extent and the layers of an archive, bottom layer first.
func readArchive(path string) (ViewExtent, [][]color.RGBA, error) {
	if !isArchive(path) {
		return ViewExtent{}, nil, fmt.Errorf("%w: %s", ErrNotArchive, path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return ViewExtent{}, nil, fmt.Errorf("open archive: %w", err)
	}
	defer db.Close()

	var (
		version int
		extent  ViewExtent
	)
	err = db.QueryRow(`SELECT version, frame_width, frame_height, frames FROM meta LIMIT 1`).
		Scan(&version, &extent.FW, &extent.FH, &extent.NFrames)
	if err != nil {
		return ViewExtent{}, nil, fmt.Errorf("read meta: %w", err)
	}
	if version > archiveVersion {
		return ViewExtent{}, nil, fmt.Errorf("archive version %d is newer than %d", version, archiveVersion)
	}
	if extent.FW <= 0 || extent.FH <= 0 || extent.NFrames <= 0 {
		return ViewExtent{}, nil, fmt.Errorf("invalid archive extent %+v", extent)
	}

	rows, err := db.Query(`SELECT pixels FROM layers ORDER BY id`)
	if err != nil {
		return ViewExtent{}, nil, fmt.Errorf("read layers: %w", err)
	}
	defer rows.Close()

	var layers [][]color.RGBA
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return ViewExtent{}, nil, fmt.Errorf("scan layer: %w", err)
		}
		if len(blob) != extent.Area()*4 {
			return ViewExtent{}, nil, fmt.Errorf("layer %d: %d bytes, want %d", len(layers), len(blob), extent.Area()*4)
		}
		layers = append(layers, unpackPixels(blob))
	}
	if err := rows.Err(); err != nil {
		return ViewExtent{}, nil, fmt.Errorf("read layers: %w", err)
	}
	if len(layers) == 0 {
		return ViewExtent{}, nil, fmt.Errorf("archive %s has no layers", path)
	}
	return extent, layers, nil
}

func isArchive(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	header := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return bytes.Equal(header, sqliteMagic)
}

func packPixels(pixels []color.RGBA) []byte {
	buf := make([]byte, 0, len(pixels)*4)
	for _, p := range pixels {
		buf = append(buf, p.R, p.G, p.B, p.A)
	}
	return buf
}

func unpackPixels(buf []byte) []color.RGBA {
	pixels := make([]color.RGBA, len(buf)/4)
	for i := range pixels {
		pixels[i] = color.RGBA{buf[i*4], buf[i*4+1], buf[i*4+2], buf[i*4+3]}
	}
	return pixels
}
