package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/lib"
	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
)

// WatchOptions holds the configuration for the watch command.
type WatchOptions struct {
	// ConfigPath overrides the settings file inside the watched directory.
	ConfigPath string
	// Save persists the watched tree as a new snap when watching stops.
	Save bool
	// Processor receives every event; nil prints them.
	Processor EventProcessor
	// LogOutput receives structured logs; nil means stderr.
	LogOutput io.Writer
	// Ready, when set, is called once the watcher is registered and the
	// offline changes have been reported.
	Ready func()
}

// Watch reports the changes made to directory since its latest snap, then
// keeps reporting changes as they happen until ctx is cancelled.
func Watch(ctx context.Context, directory string, options WatchOptions) error {
	t, err := resolveTarget(directory, options.ConfigPath)
	if err != nil {
		return err
	}

	logOutput := options.LogOutput
	if logOutput == nil {
		logOutput = os.Stderr
	}
	logger, err := lib.NewLogger(logOutput, t.settings.LogLevel, t.settings.LogFormat)
	if err != nil {
		return err
	}
	debounce, err := t.settings.DebounceDuration()
	if err != nil {
		return err
	}

	rootKey := filepath.ToSlash(t.root)
	state, err := lib.NewTreeState(rootKey)
	if err != nil {
		return err
	}
	snap := lib.NewSnapshot(rootKey, state)

	watcher, err := lib.NewWatcher(t.root, snap, lib.WatcherOptions{
		Rules:    t.rules,
		Debounce: debounce,
		Workers:  t.settings.Workers,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	walk, err := lib.Walk(ctx, t.root, t.rules, t.settings.Workers)
	if err != nil {
		watcher.Close()
		return err
	}
	if err := watcher.Seed(ctx, walk); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to seed watcher: %w", err)
	}
	// Seeding reports every file as added; the diff below is what matters.
	snap.PullEvents()

	previous, err := previousFiles(t.root)
	if err != nil {
		watcher.Close()
		return err
	}
	offline := lib.Diff(previous, walk.Files)
	logger.Info("reconciled with latest snap", "changes", len(offline), "files", len(walk.Files))
	ProcessSnapshotEvents(offline, options.Processor)

	if options.Ready != nil {
		options.Ready()
	}

	if err := watcher.Run(ctx, func(events []types.SnapshotEvent) {
		logger.Debug("delivering events", "count", len(events))
		ProcessSnapshotEvents(events, options.Processor)
	}); err != nil {
		return err
	}
	logger.Info("watch stopped", "root", t.root)

	if !options.Save {
		return nil
	}
	files, err := lib.Flatten(state)
	if err != nil {
		return err
	}
	detail, err := lib.SaveSnap(t.root, t.root, files, "watch session")
	if err != nil {
		return err
	}
	fmt.Printf("✅ Snap %d saved (%s).\n", detail.ID, shortHash(detail.Hash))
	return nil
}

// previousFiles returns the files of the latest snap, or nothing when the
// directory has never been scanned.
func previousFiles(root string) (types.FlatSnapshot, error) {
	latest, err := lib.LatestSnap(root)
	if errors.Is(err, lib.ErrNoSnaps) {
		return types.FlatSnapshot{}, nil
	}
	if err != nil {
		return nil, err
	}

	saved, err := lib.LoadSnap(root, latest.Hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load snap %d: %w", latest.ID, err)
	}
	return saved.Files, nil
}
