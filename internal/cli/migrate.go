package cli

import (
	"fmt"

	"soufra_admin/internal/database"
	"soufra_admin/internal/logger"
	"soufra_admin/internal/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCommand(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and the order change trigger.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			log := logger.New("soufra-migrate", cfg.LogLevel)

			db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel, log)
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := migrations.RunMigrations(db, log); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
