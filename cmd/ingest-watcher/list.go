package main

import (
	"github.com/gingerrexayers/ingest-watcher/internal/ingest/commands"
	"github.com/spf13/cobra"
)

func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [directory]",
		Short: "List all snaps for a directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return commands.List(dir)
		},
	}
}
