package commands

import (
	"github.com/spf13/cobra"

	"github.com/yigit/hostelhub/internal/server"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (migrates and seeds admins first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Serve(app)
		},
	}
}

// Serve runs the API until a shutdown signal arrives
func Serve(app *AppContext) error {
	srv, err := server.NewServer(app.Ctx, app.Cfg, app.Logger)
	if err != nil {
		return err
	}
	app.Logger.Info().Str("port", app.Cfg.Server.Port).Msg("Starting server...")
	return srv.Run(app.Ctx)
}
