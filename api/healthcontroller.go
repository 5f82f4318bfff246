package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opspilot/config"
)

// RegisterHealthRoutes registers health check endpoints.
func RegisterHealthRoutes(r *gin.Engine, cfg *config.Config) {
	r.GET("/api/health", handleHealth(cfg))
}

// handleHealth reports service status and which sources are enabled. It never
// echoes credential values, only whether each integration is configured.
func handleHealth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"sources": gin.H{
				"reddit":   true,
				"x":        cfg.XEnabled(),
				"linkedin": cfg.LinkedInEnabled(),
			},
		})
	}
}
