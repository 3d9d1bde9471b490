// Package lib contains the core, reusable services for the ingest watcher.
package lib

import (
	"fmt"
	"path"
	"strings"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
)

// SnapshotState is the storage capability a Snapshot is built on. Alternative
// backends (for example a persisted index) only need to satisfy this set.
type SnapshotState interface {
	AddFile(path string, stats types.EntryStats) (bool, error)
	RemoveFile(path string) (bool, error)
	UpdateFile(path string, stats types.EntryStats) (bool, error)
	Stats(path string) (types.EntryStats, bool, error)
	AddDirectory(path string) (bool, error)
	RemoveDirectory(path string) ([]string, error)
	Exists(path string) (bool, error)
	Children(path string) ([]string, error)
}

type entryKind uint8

const (
	// kindNone marks a tombstoned slot.
	kindNone entryKind = iota
	kindFile
	kindDirectory
)

// entry is one arena slot. Children are slot indices in registration order;
// indices of removed children are left in place and skipped on read.
type entry struct {
	path     string
	kind     entryKind
	stats    types.EntryStats
	children []int
}

// rootIndex is the slot of the root directory. It is never tombstoned.
const rootIndex = 0

// TreeState is an in-memory, arena-backed tree of the files and directories
// under a single root. Slots are never reused: removal clears a slot and
// drops its lookup entry, so memory grows with churn.
//
// TreeState is not safe for concurrent use.
type TreeState struct {
	root    string
	entries []entry
	index   map[string]int
}

var _ SnapshotState = (*TreeState)(nil)

// NewTreeState creates a tree whose root directory is root.
func NewTreeState(root string) (*TreeState, error) {
	t := &TreeState{index: make(map[string]int)}

	p, err := t.normalize(root, false)
	if err != nil {
		return nil, err
	}
	t.root = p
	t.addEntry(p, kindDirectory, types.EntryStats{})

	return t, nil
}

// Root returns the normalized root path.
func (t *TreeState) Root() string {
	return t.root
}

// Len returns the number of live entries, the root included.
func (t *TreeState) Len() int {
	return len(t.index)
}

// normalize cleans an absolute POSIX path. When checkInRoot is set the
// result must be the root itself or lie below it.
func (t *TreeState) normalize(p string, checkInRoot bool) (string, error) {
	if !strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: path must be absolute, got %q", types.ErrInvalidPath, p)
	}
	clean := path.Clean(p)

	if checkInRoot && !t.inRoot(clean) {
		return "", fmt.Errorf("%w: path must be in root %q, got %q", types.ErrInvalidPath, t.root, p)
	}
	return clean, nil
}

func (t *TreeState) inRoot(p string) bool {
	if t.root == "/" || p == t.root {
		return true
	}
	return strings.HasPrefix(p, t.root+"/")
}

func (t *TreeState) addEntry(p string, kind entryKind, stats types.EntryStats) int {
	t.entries = append(t.entries, entry{path: p, kind: kind, stats: stats})
	idx := len(t.entries) - 1
	t.index[p] = idx
	return idx
}

func (t *TreeState) tombstone(idx int) {
	delete(t.index, t.entries[idx].path)
	t.entries[idx] = entry{}
}

// lookup normalizes p and returns its slot, if live.
func (t *TreeState) lookup(p string) (string, int, bool, error) {
	clean, err := t.normalize(p, true)
	if err != nil {
		return "", 0, false, err
	}
	idx, ok := t.index[clean]
	return clean, idx, ok, nil
}

// ensureDirectory returns the slot of directory p, creating it and any
// missing ancestors first. It fails without mutating anything when some
// ancestor is live as a file.
func (t *TreeState) ensureDirectory(p string) (int, bool) {
	if idx, ok := t.index[p]; ok {
		return idx, t.entries[idx].kind == kindDirectory
	}

	parentIdx, ok := t.ensureDirectory(path.Dir(p))
	if !ok {
		return 0, false
	}

	idx := t.addEntry(p, kindDirectory, types.EntryStats{})
	t.entries[parentIdx].children = append(t.entries[parentIdx].children, idx)
	return idx, true
}

func (t *TreeState) insert(p string, kind entryKind, stats types.EntryStats) (bool, error) {
	clean, _, exists, err := t.lookup(p)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	parentIdx, ok := t.ensureDirectory(path.Dir(clean))
	if !ok {
		return false, nil
	}

	idx := t.addEntry(clean, kind, stats)
	t.entries[parentIdx].children = append(t.entries[parentIdx].children, idx)
	return true, nil
}

// Exists reports whether a live file or directory is stored at p.
func (t *TreeState) Exists(p string) (bool, error) {
	_, _, ok, err := t.lookup(p)
	return ok, err
}

// IsDir reports whether p is a live directory.
func (t *TreeState) IsDir(p string) (bool, error) {
	_, idx, ok, err := t.lookup(p)
	if err != nil || !ok {
		return false, err
	}
	return t.entries[idx].kind == kindDirectory, nil
}

// Stats returns the stats of the file at p. The boolean is false when p is
// absent or is a directory.
func (t *TreeState) Stats(p string) (types.EntryStats, bool, error) {
	_, idx, ok, err := t.lookup(p)
	if err != nil || !ok || t.entries[idx].kind != kindFile {
		return types.EntryStats{}, false, err
	}
	return t.entries[idx].stats, true, nil
}

// AddFile stores a file at p, creating missing parent directories. It
// returns false if p is already present.
func (t *TreeState) AddFile(p string, stats types.EntryStats) (bool, error) {
	return t.insert(p, kindFile, stats)
}

// AddDirectory stores a directory at p, creating missing parent directories.
// It returns false if p is already present.
func (t *TreeState) AddDirectory(p string) (bool, error) {
	return t.insert(p, kindDirectory, types.EntryStats{})
}

// UpdateFile replaces the stats of the file at p. Updates to an absent path,
// a directory, or with equal stats report no change.
func (t *TreeState) UpdateFile(p string, stats types.EntryStats) (bool, error) {
	_, idx, ok, err := t.lookup(p)
	if err != nil || !ok {
		return false, err
	}
	e := &t.entries[idx]
	if e.kind != kindFile || e.stats == stats {
		return false, nil
	}
	e.stats = stats
	return true, nil
}

// RemoveFile removes the file at p. Directories are left untouched; use
// RemoveDirectory for those.
func (t *TreeState) RemoveFile(p string) (bool, error) {
	_, idx, ok, err := t.lookup(p)
	if err != nil || !ok {
		return false, err
	}
	if t.entries[idx].kind != kindFile {
		return false, nil
	}
	t.tombstone(idx)
	return true, nil
}

// RemoveDirectory removes the directory at p and everything below it,
// returning the removed file paths in depth-first registration order.
// Removing the root clears its content but keeps the root itself.
func (t *TreeState) RemoveDirectory(p string) ([]string, error) {
	_, idx, ok, err := t.lookup(p)
	if err != nil {
		return nil, err
	}
	if !ok || t.entries[idx].kind != kindDirectory {
		return []string{}, nil
	}

	removed := t.removeDescendants(idx, []string{})
	if idx == rootIndex {
		t.entries[idx].children = nil
	} else {
		t.tombstone(idx)
	}
	return removed, nil
}

func (t *TreeState) removeDescendants(idx int, removed []string) []string {
	for _, c := range t.entries[idx].children {
		switch t.entries[c].kind {
		case kindDirectory:
			removed = t.removeDescendants(c, removed)
		case kindFile:
			removed = append(removed, t.entries[c].path)
		default:
			continue
		}
		t.tombstone(c)
	}
	return removed
}

// Children returns the live immediate children of the directory at p in the
// order they were first added.
func (t *TreeState) Children(p string) ([]string, error) {
	_, idx, ok, err := t.lookup(p)
	if err != nil {
		return nil, err
	}
	children := []string{}
	if !ok {
		return children, nil
	}
	for _, c := range t.entries[idx].children {
		if t.entries[c].kind != kindNone {
			children = append(children, t.entries[c].path)
		}
	}
	return children, nil
}

// AllFiles returns every live file below p, depth-first in registration order.
func (t *TreeState) AllFiles(p string) ([]string, error) {
	_, idx, ok, err := t.lookup(p)
	if err != nil {
		return nil, err
	}
	files := []string{}
	if !ok {
		return files, nil
	}
	return t.collectFiles(idx, files), nil
}

func (t *TreeState) collectFiles(idx int, files []string) []string {
	for _, c := range t.entries[idx].children {
		switch t.entries[c].kind {
		case kindDirectory:
			files = t.collectFiles(c, files)
		case kindFile:
			files = append(files, t.entries[c].path)
		}
	}
	return files
}
