// Package server exposes row generation, key mapping and WAV rendering over HTTP.
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/lixenwraith/tonerow/config"
	"github.com/lixenwraith/tonerow/status"
)

// SetupRouter builds the gin engine with middleware and routes.
// stats may be nil
func SetupRouter(cfg *config.Config, stats *status.Registry) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(RecoverWithSentry())
	router.Use(SentryMiddleware())
	router.Use(RequestTracking())
	router.Use(CORS())

	h := NewHandler(cfg, stats)
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/row", h.GenerateRow)
		api.POST("/keys", h.Keys)
		api.POST("/render", h.Render)
		api.GET("/status", h.Status)
	}

	return router
}
