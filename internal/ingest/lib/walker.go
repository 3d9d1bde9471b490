package lib

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
	"golang.org/x/sync/errgroup"
)

// WalkResult is everything a walk found below its root.
type WalkResult struct {
	// Dirs holds every non-ignored directory below the root, parents before children.
	Dirs []string
	// Files maps every regular file to its stats.
	Files types.FlatSnapshot
}

// Walk scans root, skipping ignored paths and symlinks, and hashes the
// regular files it finds with at most workers concurrent hashers. A file
// that disappears between listing and hashing is left out. rules may be nil.
func Walk(ctx context.Context, root string, rules *IgnoreRules, workers int) (*WalkResult, error) {
	if workers < 1 {
		workers = 1
	}

	result := &WalkResult{
		Dirs:  []string{},
		Files: make(types.FlatSnapshot),
	}
	var filePaths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if path == root {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if rules != nil && rules.IsIgnored(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			result.Dirs = append(result.Dirs, filepath.ToSlash(path))
			return nil
		}
		if d.Type().IsRegular() {
			filePaths = append(filePaths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, filePath := range filePaths {
		filePath := filePath
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stats, err := StatFile(filePath)
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return fmt.Errorf("failed to hash %s: %w", filePath, err)
			}

			mu.Lock()
			result.Files[filepath.ToSlash(filePath)] = stats
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
