package cmd

import (
	"db-sync/internal/migrate"

	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Diff the app schema against the stored production snapshot and record the result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate.NewRunner(loadConfig()).Pending(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(pendingCmd)
}
