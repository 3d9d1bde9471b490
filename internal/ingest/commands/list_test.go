package commands_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand(t *testing.T) {
	t.Run("should list snaps with their file counts", func(t *testing.T) {
		// Arrange
		dir := createMediaDir(t, map[string]string{"movies/film.mkv": "version 1"})
		_, err := commands.Scan(context.Background(), dir, "first scan")
		require.NoError(t, err)
		writeFile(t, dir, "movies/other.mkv", "version 2")
		_, err = commands.Scan(context.Background(), dir, "second scan")
		require.NoError(t, err)

		// Act
		var listErr error
		output, err := captureStdout(func() {
			listErr = commands.List(dir)
		})
		require.NoError(t, err, "Failed to capture stdout")

		// Assert
		require.NoError(t, listErr)
		assert.Contains(t, output, "Snaps for")

		lines := strings.Split(strings.TrimSpace(output), "\n")
		headerLine := ""
		for _, line := range lines {
			if strings.Contains(line, "SNAPSHOT") && strings.Contains(line, "HASH") {
				headerLine = line
				break
			}
		}
		require.NotEmpty(t, headerLine, "Could not find header line in output")
		filesCol := strings.Index(headerLine, "FILES")
		require.Positive(t, filesCol)

		var snap2Line string
		for _, line := range lines {
			if strings.HasPrefix(line, "2         ") {
				snap2Line = line
				break
			}
		}
		require.NotEmpty(t, snap2Line, "Could not find line for snap 2 in output")
		require.Greater(t, len(snap2Line), filesCol+10)
		assert.Equal(t, "2", strings.TrimSpace(snap2Line[filesCol:filesCol+10]))
		assert.Contains(t, snap2Line, "second scan")
		assert.Contains(t, output, "2 snap(s), latest covers 2 file(s).")
	})

	t.Run("should show a message when no snaps exist", func(t *testing.T) {
		var listErr error
		output, err := captureStdout(func() {
			listErr = commands.List(t.TempDir())
		})
		require.NoError(t, err)

		require.NoError(t, listErr)
		assert.Contains(t, output, "No snaps found")
	})

	t.Run("should return an error for a non-existent directory", func(t *testing.T) {
		err := commands.List(filepath.Join(t.TempDir(), "this_does_not_exist"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "target directory does not exist")
	})
}
