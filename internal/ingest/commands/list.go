// Package commands contains the command-line interface for the ingest watcher.
package commands

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/lib"
)

// formatBytes is a utility to convert bytes into a human-readable string (KB, MB, GB).
func formatBytes(bytes int64, decimals int) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	const k = 1024
	if decimals < 0 {
		decimals = 0
	}
	sizes := []string{"Bytes", "KB", "MB", "GB", "TB"}

	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(k)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}

	return fmt.Sprintf("%.*f %s", decimals, float64(bytes)/math.Pow(k, float64(i)), sizes[i])
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// List is the main function for the 'list' command.
func List(targetDirectory string) error {
	t, err := resolveTarget(targetDirectory, "")
	if err != nil {
		return err
	}

	snaps, err := lib.GetSortedSnaps(t.root)
	if err != nil {
		return fmt.Errorf("failed to get snaps: %w", err)
	}

	if len(snaps) == 0 {
		fmt.Printf("No snaps found for \"%s\".\n", t.root)
		return nil
	}

	fmt.Printf("Snaps for \"%s\":\n", t.root)
	fmt.Printf("%-10s %-10s %-28s %-10s %-15s %s\n", "SNAPSHOT", "HASH", "TIMESTAMP", "FILES", "SOURCE SIZE", "MESSAGE")
	fmt.Printf("%-10s %-10s %-28s %-10s %-15s %s\n", "=======", "=======", "=======================", "=====", "=============", "=======")

	for _, snap := range snaps {
		fmt.Printf("%-10s %-10s %-28s %-10s %-15s %s\n",
			strconv.FormatInt(snap.ID, 10),
			shortHash(snap.Hash),
			snap.Timestamp.Format("2006-01-02 15:04:05 MST"),
			strconv.Itoa(snap.FileCount),
			formatBytes(snap.SourceSize, 2),
			snap.Message,
		)
	}

	fmt.Printf("\n%d snap(s), latest covers %d file(s).\n", len(snaps), snaps[len(snaps)-1].FileCount)

	return nil
}
