package commands

import (
	"context"
	"fmt"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/lib"
	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
)

// DiffOptions holds the configuration for the diff command.
type DiffOptions struct {
	// SnapIdentifier selects the snap to compare against; empty means the latest.
	SnapIdentifier string
	Processor      EventProcessor
}

// Diff compares the current content of directory with a saved snap and
// returns the events that lead from the snap to the disk.
func Diff(ctx context.Context, directory string, options DiffOptions) ([]types.SnapshotEvent, error) {
	t, err := resolveTarget(directory, "")
	if err != nil {
		return nil, err
	}

	var detail *lib.SnapDetail
	if options.SnapIdentifier == "" {
		detail, err = lib.LatestSnap(t.root)
	} else {
		detail, err = lib.FindSnap(t.root, options.SnapIdentifier)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find snap: %w", err)
	}

	saved, err := lib.LoadSnap(t.root, detail.Hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load snap %d: %w", detail.ID, err)
	}

	walk, err := lib.Walk(ctx, t.root, t.rules, t.settings.Workers)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Comparing \"%s\" with snap %d (%s):\n", t.root, detail.ID, shortHash(detail.Hash))
	events := lib.Diff(saved.Files, walk.Files)
	if len(events) == 0 {
		fmt.Println("No changes.")
		return events, nil
	}

	ProcessSnapshotEvents(events, options.Processor)
	fmt.Printf("%d change(s).\n", len(events))
	return events, nil
}
