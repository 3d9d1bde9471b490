package main

import (
	"github.com/gingerrexayers/ingest-watcher/internal/ingest/commands"
	"github.com/spf13/cobra"
)

// NewPruneCommand creates the 'prune' command for the CLI.
func NewPruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune <snap-identifier> [directory]",
		Short: "Remove snaps older than the specified one.",
		Long: `Deletes every snap older than the specified snap. The snap itself and
all newer snaps are kept, and snap IDs are never reused.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: snapshotCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapIdentifier := args[0]

			dir := "."
			if len(args) > 1 {
				dir = args[1]
			}

			opts := commands.PruneOptions{SnapIdentifier: snapIdentifier}
			return commands.Prune(dir, opts)
		},
	}

	return cmd
}
