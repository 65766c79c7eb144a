package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hostbay/panelgate/internal/api/http/handler"
	"github.com/hostbay/panelgate/internal/api/http/middleware"
	"github.com/hostbay/panelgate/internal/observability"
)

// Services bundles everything the route tree needs.
type Services struct {
	Keys        *handler.AccessKeyHandler
	Panels      *handler.PanelHandler
	Status      *handler.StatusHandler
	Admin       *handler.AdminHandler
	Metrics     *observability.Metrics
	AdminAPIKey string
}

func SetupRoute(engine *gin.Engine, srvs *Services) {
	engine.Use(middleware.RequestLogger())

	healthHandler := handler.NewHealthHandler()
	engine.GET("/health", healthHandler.Check)

	if srvs.Metrics != nil {
		engine.Use(middleware.HTTPMetrics(srvs.Metrics))
		engine.GET("/metrics", gin.WrapH(srvs.Metrics.Handler()))
	}

	api := engine.Group("/api")
	{
		api.GET("/check-access-key", srvs.Keys.Check)
		api.GET("/create-panel", srvs.Panels.Create)
		api.GET("/node-status", srvs.Status.Nodes)
		api.GET("/server-status", srvs.Status.Servers)
		api.GET("/status", srvs.Status.Maintenance)

		admin := api.Group("/admin", middleware.APIKeyAuth(srvs.AdminAPIKey))
		admin.PUT("/maintenance", srvs.Admin.SetMaintenance)
	}
}
