package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/commands"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the 'watch' command. It runs until interrupted.
func NewWatchCommand() *cobra.Command {
	var configPath string
	var save bool

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Report file changes in a directory as they happen.",
		Long: `Reports the changes made since the latest snap, then keeps watching the
directory and prints every file added, removed or modified until interrupted.
Settings are read from .ingestwatcher.yaml in the directory unless --config
is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return commands.Watch(ctx, dir, commands.WatchOptions{
				ConfigPath: configPath,
				Save:       save,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a settings file")
	cmd.Flags().BoolVar(&save, "save", false, "Save the watched tree as a new snap on exit")

	return cmd
}
