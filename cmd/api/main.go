package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yigit/hostelhub/cmd/api/commands"
	"github.com/yigit/hostelhub/internal/bootstrap"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

// @title HostelHub API
// @version 1.0
// @description Hostel management backend: students, complaints, room changes, notices and the visitor log
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token, also accepted from the session cookie

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &commands.AppContext{Ctx: ctx}

	rootCmd := &cobra.Command{
		Use:           "hostelhub",
		Short:         "HostelHub - hostel management backend",
		Long:          `Runs the HostelHub API and the maintenance tasks around it: migrations, role assignments and student imports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Serve(app)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.ConfigPath, "config", "c", bootstrap.DefaultConfigPath, "Path to the YAML config file")

	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.RolesCmd(app))
	rootCmd.AddCommand(commands.StudentsCmd(app))

	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}
