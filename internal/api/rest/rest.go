package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/maps/:map_id/monitor", handler.MonitorChain)
		v1.DELETE("/maps/:map_id/monitor", handler.StopMonitoring)
		v1.POST("/maps/:map_id/sync", handler.ForceSync)
		v1.POST("/sync", handler.ForceSyncAll)
		v1.GET("/status", handler.GetStatus)
	}
}
