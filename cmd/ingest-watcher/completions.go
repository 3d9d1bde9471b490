package main

import (
	"fmt"
	"os"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/lib"
	"github.com/spf13/cobra"
)

// snapshotCompletions suggests snap IDs, annotated with hash, time and
// message, for the first positional argument.
func snapshotCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	if dirFlag, err := cmd.Flags().GetString("directory"); err == nil && dirFlag != "" {
		dir = dirFlag
	}

	snaps, err := lib.GetSortedSnaps(dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return snapSuggestions(snaps), cobra.ShellCompDirectiveNoFileComp
}

func snapSuggestions(snaps []lib.SnapDetail) []string {
	suggestions := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		hash := snap.Hash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		timestamp := snap.Timestamp.Format("2006-01-02 15:04:05")
		suggestions = append(suggestions, fmt.Sprintf("%d\t%s %s - %s", snap.ID, hash, timestamp, snap.Message))
	}
	return suggestions
}
