package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"opspilot/pipeline"
)

// RegisterRunRoutes registers discovery run endpoints.
func RegisterRunRoutes(r *gin.Engine, runner *pipeline.Runner) {
	g := r.Group("/api")
	g.POST("/run", handleRunNow(runner))
	g.GET("/stats", handleStats(runner))
}

// RunResponse is returned by the manual-trigger endpoint.
type RunResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StatsResponse reports the most recent completed run.
type StatsResponse struct {
	Running     bool   `json:"running"`
	Saved       int    `json:"saved"`
	Dupes       int    `json:"dupes"`
	LowQuality  int    `json:"low_quality"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// handleRunNow kicks off a discovery run in the background. Returns 202 when
// started, 409 when a run is already in progress.
func handleRunNow(runner *pipeline.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !runner.TryStart() {
			c.JSON(http.StatusConflict, RunResponse{
				Status:  "busy",
				Message: "a discovery run is already in progress",
			})
			return
		}
		c.JSON(http.StatusAccepted, RunResponse{
			Status:  "started",
			Message: "discovery run started",
		})
	}
}

// handleStats returns counters from the last completed run.
func handleStats(runner *pipeline.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := StatsResponse{Running: runner.Running()}

		summary, completedAt, ok := runner.LastSummary()
		if ok {
			resp.Saved = summary.Saved
			resp.Dupes = summary.Dupes
			resp.LowQuality = summary.LowQuality
			resp.CompletedAt = completedAt.Format(time.RFC3339)
		}

		c.JSON(http.StatusOK, resp)
	}
}
