package lib

import (
	"sort"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
)

// Diff compares two flat snapshots and returns the events that turn oldFiles into
// newFiles: every FileAdded first, then every FileRemoved, then every FileModified.
// Only a content hash change counts as a modification. Paths are sorted
// within each group so the result is deterministic.
func Diff(oldFiles, newFiles types.FlatSnapshot) []types.SnapshotEvent {
	events := []types.SnapshotEvent{}

	for _, p := range sortedPaths(newFiles) {
		if _, exists := oldFiles[p]; !exists {
			events = append(events, types.SnapshotEvent{Type: types.FileAdded, Path: p})
		}
	}

	for _, p := range sortedPaths(oldFiles) {
		if _, exists := newFiles[p]; !exists {
			events = append(events, types.SnapshotEvent{Type: types.FileRemoved, Path: p})
		}
	}

	for _, p := range sortedPaths(newFiles) {
		if oldStats, exists := oldFiles[p]; exists && oldStats.ContentHash() != newFiles[p].ContentHash() {
			events = append(events, types.SnapshotEvent{Type: types.FileModified, Path: p})
		}
	}

	return events
}

func sortedPaths(files types.FlatSnapshot) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Flatten collects every live file of state into a flat snapshot, so the
// incrementally maintained tree can be persisted and later passed to Diff.
func Flatten(state *TreeState) (types.FlatSnapshot, error) {
	files, err := state.AllFiles(state.Root())
	if err != nil {
		return nil, err
	}

	flat := make(types.FlatSnapshot, len(files))
	for _, p := range files {
		stats, ok, err := state.Stats(p)
		if err != nil {
			return nil, err
		}
		if ok {
			flat[p] = stats
		}
	}
	return flat, nil
}
