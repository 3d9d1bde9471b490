package commands

import (
	"context"
	"fmt"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/lib"
)

// Scan walks directory and saves what it finds as a new snap.
func Scan(ctx context.Context, directory, message string) (*lib.SnapDetail, error) {
	t, err := resolveTarget(directory, "")
	if err != nil {
		return nil, err
	}

	fmt.Printf("🔍 Scanning \"%s\"...\n", t.root)
	walk, err := lib.Walk(ctx, t.root, t.rules, t.settings.Workers)
	if err != nil {
		return nil, err
	}
	fmt.Printf("   - Found %d files in %d directories.\n", len(walk.Files), len(walk.Dirs))

	detail, err := lib.SaveSnap(t.root, t.root, walk.Files, message)
	if err != nil {
		return nil, err
	}

	fmt.Printf("✅ Snap %d saved (%s).\n", detail.ID, shortHash(detail.Hash))
	fmt.Printf("   - Source size: %s\n", formatBytes(detail.SourceSize, 2))
	return detail, nil
}
