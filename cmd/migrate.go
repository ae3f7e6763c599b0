package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/school-admin/db"
	"github.com/frahmantamala/school-admin/internal/storage"
)

func newMigrateCmd(a *app) *cobra.Command {
	var (
		migrateRollback bool
		migrateStatus   bool
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Database.Validate(); err != nil {
				return fmt.Errorf("database config: %w", err)
			}
			store, err := storage.Open(a.cfg.Database, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			command := "up"
			switch {
			case migrateRollback:
				command = "down"
			case migrateStatus:
				command = "status"
			}
			if err := db.Migrate(cmd.Context(), store.SQL.DB, a.cfg.Database.Driver, command); err != nil {
				return err
			}
			a.logger.Info("migrations applied", "command", command, "driver", a.cfg.Database.Driver)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	cmd.Flags().BoolVar(&migrateStatus, "status", false, "print the applied and pending migrations")
	return cmd
}
