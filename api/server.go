package api

import (
	"github.com/gin-gonic/gin"

	"opspilot/config"
	"opspilot/pipeline"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(cfg *config.Config, runner *pipeline.Runner) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterHealthRoutes(r, cfg)
	RegisterRunRoutes(r, runner)
	return r
}
