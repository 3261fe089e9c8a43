package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reqscope/reqscope/internal/adapters/http/handlers"
	"github.com/reqscope/reqscope/internal/adapters/http/middleware"
	"github.com/reqscope/reqscope/internal/platform/config"
	"github.com/reqscope/reqscope/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default deadline for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains everything SetupRouter needs.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig provides the service name for telemetry.
	AppConfig *config.AppConfig

	// HealthHandler serves the /-/ internal endpoints.
	HealthHandler *handlers.HealthHandler

	// GlobalsHandler serves the globals demo endpoints.
	GlobalsHandler *handlers.GlobalsHandler

	// Timeout is the per-request deadline for API routes.
	Timeout time.Duration
}

// SetupRouter wires middleware and routes onto the engine. Middleware order,
// first to last:
//  1. Recovery - catch panics from everything below
//  2. Request ID / Correlation ID - identity for logs and headers
//  3. OpenTelemetry - tracing and metrics
//  4. Logging - request start/completion
//  5. Timeout (API group) - request deadline
//  6. Globals (API group) - per-request scope lifecycle
//
// Globals sits innermost so its deferred release runs before any outer
// middleware writes its final response, and health probes never pay for a
// scope they do not use.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	apiV1.Use(middleware.Globals())

	if cfg.GlobalsHandler != nil {
		registerGlobalsRoutes(apiV1, cfg.GlobalsHandler)
	}
}

// registerGlobalsRoutes registers the demo endpoints exercising the scope.
func registerGlobalsRoutes(rg *gin.RouterGroup, h *handlers.GlobalsHandler) {
	g := rg.Group("/globals")
	g.GET("/populated", h.Populate, h.Inspect)
	g.GET("/empty", h.Inspect)
	g.GET("/fanout", h.Fanout)
	g.GET("/attr/:name", h.Lookup)
}
