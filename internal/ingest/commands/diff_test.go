package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/commands"
	"github.com/gingerrexayers/ingest-watcher/internal/ingest/lib"
	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("should report changes since the latest snap", func(t *testing.T) {
		// Arrange
		dir := createMediaDir(t, map[string]string{
			"movies/keep.mkv":   "same",
			"movies/change.mkv": "before",
			"movies/gone.mkv":   "bye",
		})
		_, err := commands.Scan(ctx, dir, "baseline")
		require.NoError(t, err)

		writeFile(t, dir, "movies/change.mkv", "after")
		require.NoError(t, os.Remove(filepath.Join(dir, "movies/gone.mkv")))
		writeFile(t, dir, "shows/new.mp4", "hello")

		// Act
		var got []types.SnapshotEvent
		events, err := commands.Diff(ctx, dir, commands.DiffOptions{
			Processor: func(e types.SnapshotEvent) { got = append(got, e) },
		})

		// Assert
		require.NoError(t, err)
		expected := []types.SnapshotEvent{
			{Type: types.FileAdded, Path: key(dir, "shows/new.mp4")},
			{Type: types.FileRemoved, Path: key(dir, "movies/gone.mkv")},
			{Type: types.FileModified, Path: key(dir, "movies/change.mkv")},
		}
		assert.Equal(t, expected, events)
		assert.Equal(t, expected, got, "the processor should see the same events")
	})

	t.Run("should compare against a chosen snap", func(t *testing.T) {
		dir := createMediaDir(t, map[string]string{"a.mp4": "a"})
		_, err := commands.Scan(ctx, dir, "one")
		require.NoError(t, err)
		writeFile(t, dir, "b.mp4", "b")
		_, err = commands.Scan(ctx, dir, "two")
		require.NoError(t, err)

		latest, err := commands.Diff(ctx, dir, commands.DiffOptions{Processor: func(types.SnapshotEvent) {}})
		require.NoError(t, err)
		assert.Empty(t, latest)

		fromFirst, err := commands.Diff(ctx, dir, commands.DiffOptions{SnapIdentifier: "1", Processor: func(types.SnapshotEvent) {}})
		require.NoError(t, err)
		assert.Equal(t, []types.SnapshotEvent{{Type: types.FileAdded, Path: key(dir, "b.mp4")}}, fromFirst)
	})

	t.Run("should fail without any snap", func(t *testing.T) {
		_, err := commands.Diff(ctx, t.TempDir(), commands.DiffOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, lib.ErrNoSnaps))
	})
}
