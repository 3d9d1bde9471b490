package lib

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
)

// ErrNoSnaps is returned when a lookup runs against a directory with no saved snaps.
var ErrNoSnaps = errors.New("no snaps found")

// SnapDetail is the catalogue view of a saved snap: its manifest header
// plus the hash that names the manifest file.
type SnapDetail struct {
	ID         int64
	Hash       string
	Timestamp  time.Time
	Root       string
	Message    string
	FileCount  int
	SourceSize int64
}

// SaveSnap persists files as a new snap of root, named by the SHA-256 of
// the encoded manifest, and assigns it the next persistent ID.
func SaveSnap(baseDir, root string, files types.FlatSnapshot, message string) (*SnapDetail, error) {
	paths, err := EnsureDirs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create data directories: %w", err)
	}

	id, err := ReserveSnapID(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve snap ID: %w", err)
	}

	if files == nil {
		files = types.FlatSnapshot{}
	}
	var sourceSize int64
	for _, stats := range files {
		sourceSize += stats.Size()
	}

	now := time.Now().UTC()
	snap := types.Snap{
		ID:         id,
		Timestamp:  now.Format(time.RFC3339),
		Root:       root,
		Message:    message,
		FileCount:  len(files),
		SourceSize: sourceSize,
		Files:      files,
	}

	// encoding/json writes map keys sorted, so equal content hashes equally.
	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snap: %w", err)
	}
	hash := GetHash(content)

	if err := os.WriteFile(filepath.Join(paths.SnapsDir, hash+".json"), content, 0644); err != nil {
		return nil, fmt.Errorf("failed to write snap %s: %w", hash, err)
	}

	ts, _ := time.Parse(time.RFC3339, snap.Timestamp)
	return &SnapDetail{
		ID:         id,
		Hash:       hash,
		Timestamp:  ts,
		Root:       root,
		Message:    message,
		FileCount:  snap.FileCount,
		SourceSize: sourceSize,
	}, nil
}

func readSnapFile(snapsDir, hash string) (*types.Snap, error) {
	content, err := os.ReadFile(filepath.Join(snapsDir, hash+".json"))
	if err != nil {
		return nil, err
	}

	var snap types.Snap
	if err := json.Unmarshal(content, &snap); err != nil {
		return nil, fmt.Errorf("could not parse snap %s: %w", hash, err)
	}
	if snap.Files == nil {
		snap.Files = types.FlatSnapshot{}
	}
	return &snap, nil
}

// LoadSnap reads the full manifest, file list included, of the snap named hash.
func LoadSnap(baseDir, hash string) (*types.Snap, error) {
	return readSnapFile(GetSnapsDir(baseDir), hash)
}

// GetSortedSnaps reads all snaps for a given directory and returns them
// sorted by ID, oldest first. Unreadable or corrupt manifests are skipped.
func GetSortedSnaps(baseDir string) ([]SnapDetail, error) {
	snapsDir := GetSnapsDir(baseDir)

	dirEntries, err := os.ReadDir(snapsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SnapDetail{}, nil
		}
		return nil, err
	}

	snapDetails := []SnapDetail{}
	for _, entry := range dirEntries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		snapHash := strings.TrimSuffix(entry.Name(), ".json")

		snapData, err := readSnapFile(snapsDir, snapHash)
		if err != nil {
			continue
		}

		ts, err := time.Parse(time.RFC3339, snapData.Timestamp)
		if err != nil {
			continue
		}

		snapDetails = append(snapDetails, SnapDetail{
			ID:         snapData.ID,
			Hash:       snapHash,
			Timestamp:  ts,
			Root:       snapData.Root,
			Message:    snapData.Message,
			FileCount:  snapData.FileCount,
			SourceSize: snapData.SourceSize,
		})
	}

	sort.Slice(snapDetails, func(i, j int) bool {
		return snapDetails[i].ID < snapDetails[j].ID
	})

	return snapDetails, nil
}

// FindSnap searches for a snap by a given identifier, which can be a numeric ID or a hash prefix.
func FindSnap(baseDir, snapIdentifier string) (*SnapDetail, error) {
	snaps, err := GetSortedSnaps(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snaps: %w", err)
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w to search from", ErrNoSnaps)
	}

	var snapToReturn *SnapDetail
	snapID, err := strconv.ParseInt(snapIdentifier, 10, 64)
	if err == nil {
		for i := range snaps {
			if snaps[i].ID == snapID {
				snapToReturn = &snaps[i]
				break
			}
		}
	} else {
		var matches []*SnapDetail
		for i := range snaps {
			if strings.HasPrefix(snaps[i].Hash, snapIdentifier) {
				matches = append(matches, &snaps[i])
			}
		}
		if len(matches) == 1 {
			snapToReturn = matches[0]
		} else if len(matches) > 1 {
			return nil, fmt.Errorf("ambiguous snap identifier '%s' matches multiple snaps", snapIdentifier)
		}
	}

	if snapToReturn == nil {
		return nil, fmt.Errorf("no snap found with ID or hash prefix '%s'", snapIdentifier)
	}

	return snapToReturn, nil
}

// LatestSnap returns the snap with the highest ID, or ErrNoSnaps.
func LatestSnap(baseDir string) (*SnapDetail, error) {
	snaps, err := GetSortedSnaps(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snaps: %w", err)
	}
	if len(snaps) == 0 {
		return nil, ErrNoSnaps
	}
	return &snaps[len(snaps)-1], nil
}

// DeleteSnap removes the manifest of the snap named hash.
func DeleteSnap(baseDir, hash string) error {
	return os.Remove(filepath.Join(GetSnapsDir(baseDir), hash+".json"))
}
