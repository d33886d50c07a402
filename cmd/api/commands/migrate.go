package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yigit/hostelhub/internal/bootstrap"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := bootstrap.ConnectDatabase(app.Ctx, app.Cfg, app.Logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := bootstrap.RunMigrations(app.Ctx, pool, dir, app.Logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", applied)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", bootstrap.MigrationsDir, "Directory holding the .sql migrations")
	return cmd
}
