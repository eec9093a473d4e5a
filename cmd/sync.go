package cmd

import (
	"db-sync/internal/migrate"

	"github.com/spf13/cobra"
)

var noPrompt bool

var syncCmd = &cobra.Command{
	Use:   "sync [noprompt]",
	Short: "Diff the app schema against the live database and apply the changes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// "sync noprompt" is the historical spelling of --noprompt.
		if len(args) > 0 && args[0] == "noprompt" {
			noPrompt = true
		}

		return migrate.NewRunner(loadConfig()).Sync(cmd.Context(), noPrompt)
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&noPrompt, "noprompt", false, "apply changes without asking for confirmation")
}
