package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the complete command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	root := &cobra.Command{
		Use:           "soufra",
		Short:         "Run the restaurant admin API and its maintenance tasks.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(newServeCommand(deps))
	root.AddCommand(newMigrateCommand(deps))
	root.AddCommand(newCreateAdminCommand(deps))
	root.AddCommand(newIngestCommand(deps))
	root.AddCommand(newStatusCommand())

	return root
}
