package main

import (
	"github.com/gingerrexayers/ingest-watcher/internal/ingest/commands"
	"github.com/spf13/cobra"
)

// NewDiffCommand creates the 'diff' command for the CLI.
func NewDiffCommand() *cobra.Command {
	var directory string

	cmd := &cobra.Command{
		Use:   "diff [snap-identifier]",
		Short: "Show what changed on disk since a snap.",
		Long: `Walks the directory and prints the files added, removed and modified
since the given snap, or since the latest snap when none is given.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: snapshotCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := commands.DiffOptions{}
			if len(args) > 0 {
				opts.SnapIdentifier = args[0]
			}
			_, err := commands.Diff(cmd.Context(), directory, opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", ".", "The directory to compare")

	return cmd
}
