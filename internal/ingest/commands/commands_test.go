package commands_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/commands"
	"github.com/gingerrexayers/ingest-watcher/internal/ingest/lib"
	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout is a helper function to redirect os.Stdout to an in-memory
// buffer, execute a function, and then return the captured output.
func captureStdout(f func()) (string, error) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	f()

	_ = w.Close()
	os.Stdout = oldStdout

	return <-outC, nil
}

// createMediaDir creates a canonical temporary directory holding the given
// files (relative path -> content).
func createMediaDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	for rel, content := range files {
		writeFile(t, dir, rel, content)
	}
	return dir
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

// key is how a file below dir is named in events.
func key(dir, rel string) string {
	return filepath.ToSlash(filepath.Join(dir, filepath.FromSlash(rel)))
}

func TestScanCommand(t *testing.T) {
	t.Run("should save a snap with the message and every file", func(t *testing.T) {
		// Arrange
		dir := createMediaDir(t, map[string]string{
			"movies/film.mkv": "film",
			"shows/e01.mp4":   "episode",
		})

		// Act
		detail, err := commands.Scan(context.Background(), dir, "initial import")

		// Assert
		require.NoError(t, err)
		snaps, err := lib.GetSortedSnaps(dir)
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.Equal(t, "initial import", snaps[0].Message)
		assert.Equal(t, detail.Hash, snaps[0].Hash)
		assert.Equal(t, 2, snaps[0].FileCount)
		assert.Equal(t, int64(len("film")+len("episode")), snaps[0].SourceSize)
	})

	t.Run("should honour ignore patterns from the settings file", func(t *testing.T) {
		dir := createMediaDir(t, map[string]string{
			"movies/film.mkv":      "film",
			"movies/film.mkv.part": "partial",
			lib.SettingsFilename:   "ignore:\n  - \"*.part\"\n",
		})

		detail, err := commands.Scan(context.Background(), dir, "")
		require.NoError(t, err)

		saved, err := lib.LoadSnap(dir, detail.Hash)
		require.NoError(t, err)
		assert.Equal(t, []string{key(dir, "movies/film.mkv")}, keys(saved.Files))
	})

	t.Run("should reject a missing directory", func(t *testing.T) {
		_, err := commands.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "target directory does not exist")
	})
}

func keys(files types.FlatSnapshot) []string {
	out := make([]string, 0, len(files))
	for p := range files {
		out = append(out, p)
	}
	return out
}

func TestProcessSnapshotEvents(t *testing.T) {
	events := []types.SnapshotEvent{
		{Type: types.FileAdded, Path: "/media/a.mp4"},
		{Type: types.FileRemoved, Path: "/media/b.mp4"},
	}

	t.Run("should hand every event to the processor in order", func(t *testing.T) {
		var got []types.SnapshotEvent
		commands.ProcessSnapshotEvents(events, func(e types.SnapshotEvent) { got = append(got, e) })
		assert.Equal(t, events, got)
	})

	t.Run("should print events by default", func(t *testing.T) {
		output, err := captureStdout(func() {
			commands.ProcessSnapshotEvents(events, nil)
		})
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(output), "\n")
		assert.Equal(t, []string{"file_added: /media/a.mp4", "file_removed: /media/b.mp4"}, lines)
	})
}
