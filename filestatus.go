package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileStorage is where a document lives on disk: one file, or one file per frame.
type FileStorage struct {
	paths  []string
	ranged bool
}

func StorageSingle(path string) FileStorage {
	return FileStorage{paths: []string{path}}
}

func StorageRange(paths ...string) FileStorage {
	if len(paths) == 0 {
		panic("storage: empty path range")
	}
	return FileStorage{paths: append([]string(nil), paths...), ranged: true}
}

func (s FileStorage) IsRange() bool {
	return s.ranged
}

// Path returns the path of a single-file storage, or the first path of a range.
func (s FileStorage) Path() string {
	return s.paths[0]
}

func (s FileStorage) Paths() []string {
	return append([]string(nil), s.paths...)
}

func (s FileStorage) Equal(o FileStorage) bool {
	if s.ranged != o.ranged || len(s.paths) != len(o.paths) {
		return false
	}
	for i := range s.paths {
		if s.paths[i] != o.paths[i] {
			return false
		}
	}
	return true
}

func (s FileStorage) Contains(path string) bool {
	path = filepath.Clean(path)
	for _, p := range s.paths {
		if filepath.Clean(p) == path {
			return true
		}
	}
	return false
}

func (s FileStorage) String() string {
	if !s.ranged {
		return s.paths[0]
	}
	if len(s.paths) == 1 {
		return "[" + s.paths[0] + "]"
	}
	return fmt.Sprintf("[%s .. %s]", s.paths[0], s.paths[len(s.paths)-1])
}

type FileStatusKind int

const (
	FileStatusNoFile FileStatusKind = iota
	FileStatusNew
	FileStatusSaved
	FileStatusModified
)

// FileStatus tracks the relationship between a document and its file(s).
// Every status except NoFile carries a storage location.
type FileStatus struct {
	kind    FileStatusKind
	storage FileStorage
}

func FileNoFile() FileStatus {
	return FileStatus{kind: FileStatusNoFile}
}

func FileNew(s FileStorage) FileStatus {
	return FileStatus{kind: FileStatusNew, storage: s}
}

func FileSaved(s FileStorage) FileStatus {
	return FileStatus{kind: FileStatusSaved, storage: s}
}

func FileModified(s FileStorage) FileStatus {
	return FileStatus{kind: FileStatusModified, storage: s}
}

func (f FileStatus) Kind() FileStatusKind {
	return f.kind
}

func (f FileStatus) Storage() (FileStorage, bool) {
	if f.kind == FileStatusNoFile {
		return FileStorage{}, false
	}
	return f.storage, true
}

// SavedStorage returns the storage only when the status is Saved.
func (f FileStatus) SavedStorage() (FileStorage, bool) {
	if f.kind != FileStatusSaved {
		return FileStorage{}, false
	}
	return f.storage, true
}

func (f FileStatus) Equal(o FileStatus) bool {
	if f.kind != o.kind {
		return false
	}
	return f.kind == FileStatusNoFile || f.storage.Equal(o.storage)
}

// Title is the short name shown in the view bar.
func (f FileStatus) Title() string {
	switch f.kind {
	case FileStatusNoFile:
		return "[no file]"
	case FileStatusModified:
		return shortName(f.storage) + "*"
	}
	return shortName(f.storage)
}

func (f FileStatus) String() string {
	switch f.kind {
	case FileStatusNew:
		return fmt.Sprintf("New(%s)", f.storage)
	case FileStatusSaved:
		return fmt.Sprintf("Saved(%s)", f.storage)
	case FileStatusModified:
		return fmt.Sprintf("Modified(%s)", f.storage)
	}
	return "NoFile"
}

func shortName(s FileStorage) string {
	name := filepath.Base(s.Path())
	if s.IsRange() && len(s.paths) > 1 {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s[%d]%s", strings.TrimSuffix(name, ext), len(s.paths), ext)
	}
	return name
}
