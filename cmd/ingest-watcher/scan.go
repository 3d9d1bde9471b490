package main

import (
	"github.com/gingerrexayers/ingest-watcher/internal/ingest/commands"
	"github.com/spf13/cobra"
)

func NewScanCommand() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "Scan a directory and save the result as a new snap.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			_, err := commands.Scan(cmd.Context(), dir, message)
			return err
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "A message to associate with the snap")

	return cmd
}
