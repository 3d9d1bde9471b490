package lib

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
)

// WatcherOptions configures a Watcher. Zero values are usable.
type WatcherOptions struct {
	// Rules filters paths; nil ignores nothing.
	Rules *IgnoreRules
	// Debounce is how long events are merged per path before they are
	// applied. Zero applies every event as it arrives.
	Debounce time.Duration
	// Workers bounds concurrent hashing when a new directory is walked.
	Workers int
	Logger  *slog.Logger
}

// Watcher keeps a Snapshot in sync with a directory tree on disk using
// fsnotify. It is the only writer of the snapshot while Run is active.
type Watcher struct {
	root      string
	snap      *Snapshot
	opts      WatcherOptions
	logger    *slog.Logger
	fsWatcher *fsnotify.Watcher

	// pending is only touched by the Run goroutine.
	pending map[string]fsnotify.Op
}

// NewWatcher creates a watcher for root feeding snap.
func NewWatcher(root string, snap *Snapshot, opts WatcherOptions) (*Watcher, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		root:      root,
		snap:      snap,
		opts:      opts,
		logger:    logger,
		fsWatcher: fsw,
		pending:   make(map[string]fsnotify.Op),
	}, nil
}

// Close releases the underlying fsnotify watcher. Run closes it on return.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

// Seed replays a walk of the root into the snapshot, directories first, and
// starts watching the root and every walked directory.
func (w *Watcher) Seed(ctx context.Context, walk *WalkResult) error {
	if err := w.fsWatcher.Add(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}
	return w.replay(ctx, walk)
}

func (w *Watcher) replay(ctx context.Context, walk *WalkResult) error {
	for _, dir := range walk.Dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.snap.AddDirectory(dir); err != nil {
			return err
		}
		if err := w.fsWatcher.Add(filepath.FromSlash(dir)); err != nil {
			w.logger.Warn("cannot watch directory", "path", dir, "error", err)
		}
	}

	for _, p := range sortedPaths(walk.Files) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.putFile(p, walk.Files[p]); err != nil {
			return err
		}
	}
	return nil
}

// Run processes filesystem events until ctx is cancelled. Events are merged
// per path over the debounce window and applied in sorted path order; the
// resulting snapshot events are handed to sink. Pending changes are flushed
// once more before Run returns.
func (w *Watcher) Run(ctx context.Context, sink func([]types.SnapshotEvent)) error {
	defer w.fsWatcher.Close()

	var tick <-chan time.Time
	if w.opts.Debounce > 0 {
		ticker := time.NewTicker(w.opts.Debounce)
		defer ticker.Stop()
		tick = ticker.C
	}

	w.logger.Info("watching", "root", w.root, "debounce", w.opts.Debounce)
	for {
		select {
		case <-ctx.Done():
			w.flush(context.WithoutCancel(ctx), sink)
			return nil

		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				w.flush(ctx, sink)
				return nil
			}
			w.pending[ev.Name] |= ev.Op
			if tick == nil {
				w.flush(ctx, sink)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				w.flush(ctx, sink)
				return nil
			}
			w.logger.Warn("fsnotify error", "error", err)

		case <-tick:
			w.flush(ctx, sink)
		}
	}
}

// flush applies the merged operations and delivers whatever they produced.
func (w *Watcher) flush(ctx context.Context, sink func([]types.SnapshotEvent)) {
	if len(w.pending) > 0 {
		paths := make([]string, 0, len(w.pending))
		for p := range w.pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		for _, p := range paths {
			w.apply(ctx, p, w.pending[p])
		}
		w.pending = make(map[string]fsnotify.Op)
	}

	if events := w.snap.PullEvents(); len(events) > 0 && sink != nil {
		sink(events)
	}
}

// apply reconciles one path with the disk. The current state of the path
// decides the outcome; op only filters out permission-only changes.
func (w *Watcher) apply(ctx context.Context, path string, op fsnotify.Op) {
	if op == fsnotify.Chmod {
		return
	}
	key := filepath.ToSlash(path)

	info, err := os.Lstat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Warn("cannot stat path", "path", key, "error", err)
			return
		}
		w.removePath(key)
		return
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		w.removePath(key)
		return
	}
	if w.opts.Rules != nil && w.opts.Rules.IsIgnored(path) {
		return
	}

	isDir, err := w.snap.IsDir(key)
	if err != nil {
		w.logger.Warn("path rejected", "path", key, "error", err)
		return
	}

	switch {
	case info.IsDir():
		if !isDir {
			w.removePath(key)
		}
		w.addTree(ctx, path)
	case info.Mode().IsRegular():
		if isDir {
			w.removePath(key)
		}
		stats, err := StatFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				w.removePath(key)
				return
			}
			w.logger.Warn("cannot hash file", "path", key, "error", err)
			return
		}
		if err := w.putFile(key, stats); err != nil {
			w.logger.Warn("cannot record file", "path", key, "error", err)
		}
	}
}

// putFile adds a file, or updates it when it is already known.
func (w *Watcher) putFile(key string, stats types.EntryStats) error {
	_, known, err := w.snap.Stats(key)
	if err != nil {
		return err
	}
	if known {
		return w.snap.UpdateFile(key, stats)
	}
	return w.snap.AddFile(key, stats)
}

// addTree records a new directory and everything already inside it, since
// entries created before the watch was registered produce no events.
func (w *Watcher) addTree(ctx context.Context, path string) {
	key := filepath.ToSlash(path)
	if err := w.snap.AddDirectory(key); err != nil {
		w.logger.Warn("cannot record directory", "path", key, "error", err)
		return
	}
	if err := w.fsWatcher.Add(path); err != nil {
		w.logger.Warn("cannot watch directory", "path", key, "error", err)
	}

	walk, err := Walk(ctx, path, w.opts.Rules, w.opts.Workers)
	if err != nil {
		w.logger.Warn("cannot walk directory", "path", key, "error", err)
		return
	}
	if err := w.replay(ctx, walk); err != nil {
		w.logger.Warn("cannot record directory content", "path", key, "error", err)
	}
}

func (w *Watcher) removePath(key string) {
	isDir, err := w.snap.IsDir(key)
	if err != nil {
		w.logger.Warn("path rejected", "path", key, "error", err)
		return
	}
	if isDir {
		// inotify drops watches of deleted directories on its own.
		_ = w.fsWatcher.Remove(filepath.FromSlash(key))
		err = w.snap.RemoveDirectory(key)
	} else {
		err = w.snap.RemoveFile(key)
	}
	if err != nil {
		w.logger.Warn("cannot remove path", "path", key, "error", err)
	}
}
