package lib

import (
	"sync"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
)

// Snapshot turns mutations of its state into a queue of SnapshotEvents.
// An event is queued only when the state reports an actual change.
//
// Mutations must come from a single goroutine. PullEvents may run
// concurrently with them: the buffer is swapped under eventsMu, so no event
// is lost or delivered twice.
type Snapshot struct {
	id    string
	state SnapshotState

	eventsMu sync.Mutex
	events   []types.SnapshotEvent
}

// NewSnapshot wraps state. The snapshot takes ownership of it; callers should
// not mutate state directly afterwards.
func NewSnapshot(id string, state SnapshotState) *Snapshot {
	return &Snapshot{id: id, state: state}
}

// ID returns the identifier the snapshot was created with.
func (s *Snapshot) ID() string {
	return s.id
}

func (s *Snapshot) record(eventType types.EventType, path string) {
	s.eventsMu.Lock()
	s.events = append(s.events, types.SnapshotEvent{Type: eventType, Path: path})
	s.eventsMu.Unlock()
}

// AddFile adds a file and queues FileAdded if it was not known yet.
func (s *Snapshot) AddFile(path string, stats types.EntryStats) error {
	changed, err := s.state.AddFile(path, stats)
	if err != nil {
		return err
	}
	if changed {
		s.record(types.FileAdded, path)
	}
	return nil
}

// RemoveFile removes a file and queues FileRemoved if it was known.
func (s *Snapshot) RemoveFile(path string) error {
	changed, err := s.state.RemoveFile(path)
	if err != nil {
		return err
	}
	if changed {
		s.record(types.FileRemoved, path)
	}
	return nil
}

// UpdateFile replaces a file's stats and queues FileModified if they differ.
func (s *Snapshot) UpdateFile(path string, stats types.EntryStats) error {
	changed, err := s.state.UpdateFile(path, stats)
	if err != nil {
		return err
	}
	if changed {
		s.record(types.FileModified, path)
	}
	return nil
}

// AddDirectory adds a directory. Directories have no event of their own.
func (s *Snapshot) AddDirectory(path string) error {
	_, err := s.state.AddDirectory(path)
	return err
}

// RemoveDirectory removes a directory tree and queues one FileRemoved per
// file it contained, in the order the state removed them.
func (s *Snapshot) RemoveDirectory(path string) error {
	removed, err := s.state.RemoveDirectory(path)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		return nil
	}

	s.eventsMu.Lock()
	for _, p := range removed {
		s.events = append(s.events, types.SnapshotEvent{Type: types.FileRemoved, Path: p})
	}
	s.eventsMu.Unlock()
	return nil
}

// PullEvents returns the queued events and empties the queue.
func (s *Snapshot) PullEvents() []types.SnapshotEvent {
	s.eventsMu.Lock()
	events := s.events
	s.events = nil
	s.eventsMu.Unlock()

	if events == nil {
		return []types.SnapshotEvent{}
	}
	return events
}

// Exists reports whether path is known to the snapshot.
func (s *Snapshot) Exists(path string) (bool, error) {
	return s.state.Exists(path)
}

// Stats returns the stats of a known file.
func (s *Snapshot) Stats(path string) (types.EntryStats, bool, error) {
	return s.state.Stats(path)
}

// IsDir reports whether path is a known directory: it exists but carries no
// file stats.
func (s *Snapshot) IsDir(path string) (bool, error) {
	ok, err := s.state.Exists(path)
	if err != nil || !ok {
		return false, err
	}
	_, isFile, err := s.state.Stats(path)
	return !isFile, err
}
