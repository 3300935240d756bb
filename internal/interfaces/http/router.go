// Package http assembles the gin engine and the HTTP server of the DockNet API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ayush-docknet/internal/interfaces/http/handlers"
	"github.com/turtacn/ayush-docknet/internal/interfaces/http/middleware"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the route tree.  Nil handlers leave their routes unregistered.
type RouterConfig struct {
	ProjectHandler *handlers.ProjectHandler
	CatalogHandler *handlers.CatalogHandler
	HealthHandler  *handlers.HealthHandler

	Logging   middleware.LoggingConfig
	CORS      middleware.CORSConfig
	RateLimit *middleware.RateLimitConfig // nil disables rate limiting

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter builds the gin engine.  Global middleware runs in this order:
// recovery, request id, access log, CORS, rate limit.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("http")

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging(logger, cfg.Logging))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.RateLimit != nil {
		rl := *cfg.RateLimit
		r.Use(middleware.RateLimit(middleware.NewLimiter(rl.RequestsPerSecond, rl.Burst, rl.IdleTTL), rl))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1")
	if h := cfg.CatalogHandler; h != nil {
		api.GET("/stages", h.Stages)
		catalog := api.Group("/catalog")
		catalog.GET("/plants", h.Plants)
		catalog.GET("/plant-parts", h.PlantParts)
		catalog.GET("/tags", h.Tags)
		catalog.GET("/engines", h.Engines)
		catalog.GET("/docking-targets", h.DockingTargets)
		catalog.GET("/network", h.NetworkOptions)
	}
	if h := cfg.ProjectHandler; h != nil {
		projects := api.Group("/projects")
		projects.POST("", h.Create)
		projects.GET("", h.List)
		projects.GET("/:id", h.Get)
		projects.POST("/:id/open", h.Open)
		projects.GET("/:id/overview", h.Overview)
		projects.POST("/:id/entry", h.Entry)
		projects.POST("/:id/stages/:stage", h.CompleteStage)
		projects.POST("/:id/services/:service", h.Service)
		projects.GET("/:id/exports/compounds", h.ExportCompounds)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Code:    string(errors.ErrCodeNotFound),
			Message: "route not found",
		})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handlers.ErrorResponse{
			Code:    string(errors.ErrCodeValidation),
			Message: "method not allowed",
		})
	})
	return r
}
