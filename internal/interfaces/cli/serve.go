package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/ayush-docknet/internal/bootstrap"
	"github.com/turtacn/ayush-docknet/internal/config"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
)

func newServeCmd() *cobra.Command {
	var (
		port  int
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cc.Config
			if port > 0 {
				cfg.Server.Port = port
			}
			return Serve(cmd, cfg, cc.ConfigPath, watch, cc.Logger)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload runtime settings when the config file changes")
	return cmd
}

// Serve runs the API until SIGINT or SIGTERM.
func Serve(cmd *cobra.Command, cfg *config.Config, configPath string, watch bool, logger logging.Logger) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg, Version, logger)
	if err != nil {
		return err
	}
	defer app.Close(cmd.Context())

	if watch && configPath != "" {
		err := config.Watch(configPath, app.Reload, func(err error) {
			logger.Warn("Configuration reload rejected", logging.Err(err))
		})
		if err != nil {
			logger.Warn("Configuration watch disabled", logging.Err(err))
		}
	}

	logger.Info("Starting DockNet API",
		logging.String("version", Version),
		logging.String("addr", cfg.Server.Addr()),
		logging.Int("projects", app.Store.Len()),
	)
	return app.Run(ctx)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
