package router

import (
	apphttp "county_lookup/internal/http"
	"county_lookup/platform/httpkit"
	"county_lookup/platform/metrics"

	"github.com/gin-gonic/gin"
)

// New builds the gin engine: shared middleware first, then every module's
// routes under /api.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.CORS(app.Config))
	engine.Use(httpkit.SecurityHeaders())

	if app.Config.IsMetricsEnabled() {
		engine.Use(metrics.Middleware())
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	engine.GET("/api/health", func(c *gin.Context) {
		httpkit.OK(c, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	if app.Limiter != nil {
		api.Use(httpkit.RateLimit(app.Limiter, app.Logger))
	}

	ctx := &apphttp.RouterContext{
		Engine: engine,
		API:    api,
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Debug("module routes registered", "module", module.Name())
	}

	return engine
}
