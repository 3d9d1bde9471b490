package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// `json:"..."` tags mirror the field names persisted snapshots have always used.

// ErrInvalidPath is returned when a path is not absolute or falls outside the watched root.
var ErrInvalidPath = errors.New("invalid path")

// ErrInvalidEntryStats is returned when EntryStats cannot be constructed.
var ErrInvalidEntryStats = errors.New("invalid entry stats")

// ErrInvalidEvent is returned when a SnapshotEvent cannot be constructed.
var ErrInvalidEvent = errors.New("invalid snapshot event")

// contentHashLength is the length of a hex-encoded MD5 digest.
const contentHashLength = 32

// EntryStats describes the observed content of a file. It is a value object:
// the zero value is never produced by NewEntryStats and two stats are equal
// when all of their fields are equal.
type EntryStats struct {
	contentHash string
	size        int64
	mimeType    string
}

// NewEntryStats validates and normalizes the content hash (trimmed, lower-cased)
// and returns the resulting stats.
func NewEntryStats(contentHash string, size int64, mimeType string) (EntryStats, error) {
	h := strings.ToLower(strings.TrimSpace(contentHash))
	if len(h) != contentHashLength {
		return EntryStats{}, fmt.Errorf("%w: content hash must be exactly %d characters, got %d", ErrInvalidEntryStats, contentHashLength, len(h))
	}
	for _, c := range h {
		if !isHexDigit(c) {
			return EntryStats{}, fmt.Errorf("%w: content hash must contain only hexadecimal characters, got %q", ErrInvalidEntryStats, contentHash)
		}
	}
	if size < 0 {
		return EntryStats{}, fmt.Errorf("%w: size must be non-negative, got %d", ErrInvalidEntryStats, size)
	}
	return EntryStats{contentHash: h, size: size, mimeType: mimeType}, nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

// ContentHash returns the normalized 32-character hex digest.
func (s EntryStats) ContentHash() string { return s.contentHash }

// Size returns the file size in bytes.
func (s EntryStats) Size() int64 { return s.size }

// MimeType returns the MIME type, or "" when unknown.
func (s EntryStats) MimeType() string { return s.mimeType }

// Equal reports whether both stats carry the same hash, size and MIME type.
func (s EntryStats) Equal(other EntryStats) bool { return s == other }

type entryStatsJSON struct {
	MD5  string `json:"md5"`
	Size int64  `json:"size"`
	Mime string `json:"mime,omitempty"`
}

func (s EntryStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryStatsJSON{MD5: s.contentHash, Size: s.size, Mime: s.mimeType})
}

// UnmarshalJSON applies the same validation as NewEntryStats.
func (s *EntryStats) UnmarshalJSON(data []byte) error {
	var raw entryStatsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewEntryStats(raw.MD5, raw.Size, raw.Mime)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// EventType is the kind of change a SnapshotEvent reports.
type EventType string

const (
	FileAdded    EventType = "file_added"
	FileRemoved  EventType = "file_removed"
	FileModified EventType = "file_modified"
)

func (t EventType) valid() bool {
	switch t {
	case FileAdded, FileRemoved, FileModified:
		return true
	}
	return false
}

// SnapshotEvent is a domain event describing a change to a single file.
type SnapshotEvent struct {
	Type EventType `json:"type"`
	Path string    `json:"path"`
}

// NewSnapshotEvent builds an event, rejecting unknown types and empty paths.
func NewSnapshotEvent(t EventType, path string) (SnapshotEvent, error) {
	if !t.valid() {
		return SnapshotEvent{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, t)
	}
	if path == "" {
		return SnapshotEvent{}, fmt.Errorf("%w: path must not be empty", ErrInvalidEvent)
	}
	return SnapshotEvent{Type: t, Path: path}, nil
}

func (e SnapshotEvent) String() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

// FlatSnapshot maps absolute file paths to their stats. Directories are not represented.
type FlatSnapshot map[string]EntryStats

// Snap is the manifest persisted for each saved snapshot.
type Snap struct {
	ID         int64        `json:"id"`
	Timestamp  string       `json:"timestamp"`
	Root       string       `json:"root"`
	Message    string       `json:"message,omitempty"`
	FileCount  int          `json:"fileCount"`
	SourceSize int64        `json:"sourceSize"`
	Files      FlatSnapshot `json:"files"`
}
