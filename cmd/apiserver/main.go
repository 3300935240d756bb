// Command apiserver runs the DockNet HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/ayush-docknet/internal/bootstrap"
	"github.com/turtacn/ayush-docknet/internal/config"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
)

const defaultConfigPath = "configs/config.yaml"

var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	watch := flag.Bool("watch", true, "reload runtime settings when the config file changes")
	flag.Parse()

	cfg, loadedFrom, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, loadedFrom, *watch, logger); err != nil {
		logger.Error("API server stopped with error", logging.Err(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, configPath string, watch bool, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg, version, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		app.Close(closeCtx)
	}()

	if watch && configPath != "" {
		if err := config.Watch(configPath, app.Reload, func(err error) {
			logger.Warn("Configuration reload rejected", logging.Err(err))
		}); err != nil {
			logger.Warn("Configuration watch disabled", logging.Err(err))
		}
	}

	logger.Info("Starting DockNet API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()),
		logging.String("config", configPath),
	)
	return app.Run(ctx)
}

// loadConfig reads path when it exists and falls back to DOCKNET_*
// environment variables otherwise.  The returned path is empty in the
// fallback case.
func loadConfig(path string) (*config.Config, string, error) {
	if _, err := os.Stat(path); err == nil {
		cfg, err := config.Load(path)
		return cfg, path, err
	}
	cfg, err := config.LoadFromEnv()
	return cfg, "", err
}
