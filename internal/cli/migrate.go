package cli

import (
	"fmt"

	"github.com/haatos/simple-ci-metrics/internal/settings"
	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settings.Settings
			db, err := store.InitDatabase(s, false)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.RunMigrations(db, s.DBDriver); err != nil {
				return err
			}
			version, err := store.MigrationVersion(db, s.DBDriver)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s database at version %d\n", s.DBDriver, version)
			return err
		},
	}
}
