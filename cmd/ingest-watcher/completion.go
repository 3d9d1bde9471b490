package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewCompletionCommand creates the 'completion' command, which generates
// shell completion scripts.
func NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:
  $ source <(ingest-watcher completion bash)

  To load completions for all new sessions (Linux), run once:
  $ sudo ingest-watcher completion bash > /etc/bash_completion.d/ingest-watcher

Zsh:
  If shell completion is not already enabled in your environment, run once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  Then, to load completions for all new sessions:
  $ ingest-watcher completion zsh > "${fpath[1]}/_ingest-watcher"

Fish:
  $ ingest-watcher completion fish > ~/.config/fish/completions/ingest-watcher.fish

Powershell:
  PS> ingest-watcher completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}
