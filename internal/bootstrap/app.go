package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ayush-docknet/internal/application/workflow"
	"github.com/turtacn/ayush-docknet/internal/config"
	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/mockdata"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/prometheus"
	httpapi "github.com/turtacn/ayush-docknet/internal/interfaces/http"
	"github.com/turtacn/ayush-docknet/internal/interfaces/http/handlers"
	"github.com/turtacn/ayush-docknet/internal/interfaces/http/middleware"
)

// App is the assembled API process.
type App struct {
	Config  *config.Config
	Store   *project.Store
	Service *workflow.Service
	Metrics *prometheus.AppMetrics
	Infra   *Infrastructure
	Router  *gin.Engine
	Server  *httpapi.Server

	logger      logging.Logger
	unsubscribe func()
}

// NewApp opens the backends and wires the store, the workflow service and
// the HTTP server.
func NewApp(ctx context.Context, cfg *config.Config, version string, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	SetGinMode(cfg.Server.Mode)

	metrics := prometheus.NewNoopAppMetrics()
	var collector prometheus.MetricsCollector
	if cfg.Monitoring.Prometheus.Enabled {
		c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Monitoring.Prometheus.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		collector = c
		metrics = prometheus.NewAppMetrics(c)
	}

	infra, err := Open(ctx, cfg, metrics, logger)
	if err != nil {
		return nil, err
	}

	store := project.NewStore()
	app := &App{Config: cfg, Store: store, Metrics: metrics, Infra: infra, logger: logger}
	if infra.Snapshots != nil {
		app.unsubscribe = store.Subscribe(infra.Snapshots.Listener())
	}
	if cfg.Pipeline.SeedDemo {
		if _, err := store.Seed(mockdata.SeedProjects()...); err != nil {
			infra.Close(ctx)
			return nil, fmt.Errorf("seed demo projects: %w", err)
		}
	}

	svc, err := workflow.NewService(workflow.Deps{
		Store:         store,
		Collaborators: infra.Collaborators,
		Events:        infra.Events,
		Artifacts:     infra.Artifacts,
		Metrics:       metrics,
		Logger:        logger,
	}, workflow.Config{
		ServiceTimeout:  cfg.Pipeline.ServiceTimeout,
		TargetThreshold: cfg.Pipeline.TargetThreshold,
	})
	if err != nil {
		infra.Close(ctx)
		return nil, err
	}
	app.Service = svc

	app.Router = httpapi.NewRouter(routerConfig(cfg, svc, infra, version, metrics, collector, logger))
	app.Server = httpapi.NewServer(cfg.Server, app.Router, logger)
	return app, nil
}

func routerConfig(cfg *config.Config, svc *workflow.Service, infra *Infrastructure, version string,
	metrics *prometheus.AppMetrics, collector prometheus.MetricsCollector, logger logging.Logger) httpapi.RouterConfig {
	logCfg := middleware.DefaultLoggingConfig()
	logCfg.Recorder = metrics

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.CORS.AllowOrigins

	rc := httpapi.RouterConfig{
		ProjectHandler:   handlers.NewProjectHandler(svc, logger),
		CatalogHandler:   handlers.NewCatalogHandler(),
		HealthHandler:    handlers.NewHealthHandler(version, infra.Checkers...),
		Logging:          logCfg,
		CORS:             corsCfg,
		Logger:           logger,
		MetricsCollector: collector,
		MetricsPath:      cfg.Monitoring.Prometheus.Path,
	}
	if cfg.RateLimit.Enabled {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		rc.RateLimit = &rl
	}
	return rc
}

// Reload applies the settings that can change at runtime.
func (a *App) Reload(cfg *config.Config) {
	a.Infra.Backend.SetLatency(cfg.Pipeline.MockLatency)
	a.logger.Info("Configuration reloaded", logging.Duration("mock_latency", cfg.Pipeline.MockLatency))
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.Server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+time.Second)
	defer cancel()
	return a.Server.Shutdown(shutdownCtx)
}

// Close detaches the snapshot listener and releases the backends.
func (a *App) Close(ctx context.Context) {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.Infra.Close(ctx)
}
