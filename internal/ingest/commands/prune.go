package commands

import (
	"fmt"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/lib"
)

// PruneOptions holds the configuration for the prune command.
type PruneOptions struct {
	SnapIdentifier string
}

// Prune deletes every snap older than the one named by options. The named
// snap and everything newer are kept.
func Prune(directory string, options PruneOptions) error {
	t, err := resolveTarget(directory, "")
	if err != nil {
		return err
	}

	fmt.Printf("🧹 Starting prune for \"%s\", removing snaps older than %s...\n", t.root, options.SnapIdentifier)

	allSnaps, err := lib.GetSortedSnaps(t.root)
	if err != nil {
		return fmt.Errorf("could not get snaps: %w", err)
	}

	snapToKeepFrom, err := lib.FindSnap(t.root, options.SnapIdentifier)
	if err != nil {
		return fmt.Errorf("failed to find snap %s: %w", options.SnapIdentifier, err)
	}

	keepFromIndex := -1
	for i, s := range allSnaps {
		if s.Hash == snapToKeepFrom.Hash {
			keepFromIndex = i
			break
		}
	}
	if keepFromIndex == -1 {
		return fmt.Errorf("internal error: could not find specified snap in the timeline")
	}

	snapsToPrune := allSnaps[:keepFromIndex]
	if len(snapsToPrune) == 0 {
		fmt.Println("No snaps older than the specified one to prune.")
		return nil
	}

	deleted := 0
	for _, snap := range snapsToPrune {
		if err := lib.DeleteSnap(t.root, snap.Hash); err != nil {
			fmt.Printf("   - Warning: could not delete snap %d: %v\n", snap.ID, err)
			continue
		}
		deleted++
	}

	fmt.Println("✅ Prune complete!")
	fmt.Printf("   - Deleted %d old snap(s).\n", deleted)

	return nil
}
