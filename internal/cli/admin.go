package cli

import (
	"errors"
	"fmt"

	"soufra_admin/internal/database"
	"soufra_admin/internal/logger"
	"soufra_admin/internal/migrations"
	"soufra_admin/internal/models"
	"soufra_admin/internal/repository"
	"soufra_admin/internal/services"

	"github.com/spf13/cobra"
)

func newCreateAdminCommand(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a super admin account, or promote an existing one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			log := logger.New("soufra-admin", cfg.LogLevel)

			db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel, log)
			if err != nil {
				return err
			}
			defer closeDB(db)
			if err := migrations.RunMigrations(db, log); err != nil {
				return err
			}

			users := services.NewUserService(repository.NewUserRepository(db))
			user, err := users.SetRole(cmd.Context(), email, models.SuperAdmin)
			switch {
			case err == nil:
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "promoted %s to %s\n", user.Email, user.Role)
				return nil
			case !errors.Is(err, models.ErrNotFound):
				return err
			}

			user = &models.User{Email: email, Role: models.SuperAdmin}
			if err := users.CreateUser(cmd.Context(), user, password); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Account email.")
	cmd.Flags().String("password", "", "Password for a new account (at least 8 characters).")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
