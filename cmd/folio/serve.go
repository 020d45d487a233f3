package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site",
	Long: `serve reads the posts under the content directory (indexing them into
SQLite first when a database path is configured) and serves the site until
interrupted. With --watch, edits to the content directory are picked up
without a restart.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app := folio.New(cfg)
		app.Echo.Logger.SetLevel(log.INFO)
		defer app.Close()

		app.Echo.Logger.Infof("serving %s on %s", app.Config.ContentDir, app.Config.Addr)
		return app.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default \":3000\")")
	serveCmd.Flags().Bool("watch", false, "reload posts when the content directory changes")
}

