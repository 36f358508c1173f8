package app

import (
	"github.com/gin-gonic/gin"
	"github.com/modassist/core/internal/modules/processing/insight"
	"github.com/modassist/core/internal/modules/system/core/health"
	"github.com/modassist/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	a.router.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	a.router.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })

	api := a.router.Group("/api/v2")

	insight.NewHandler(a.cfg, a.logger, a.insight).RegisterRoutes(api)
	health.RegisterRoutes(api, a.knowledge, a.cfg.RetrievalEnabled())
}
