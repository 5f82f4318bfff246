package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"opspilot/config"
	"opspilot/pipeline"
	"opspilot/types"
)

type stubJob struct {
	release chan struct{}
	summary types.RunSummary
}

func (j *stubJob) Run(ctx context.Context) types.RunSummary {
	if j.release != nil {
		<-j.release
	}
	return j.summary
}

func newTestRouter(runner *pipeline.Runner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{NitterURL: "https://nitter.example.com"}
	return NewRouter(cfg, runner)
}

func TestRunEndpointStartsAndConflicts(t *testing.T) {
	job := &stubJob{release: make(chan struct{})}
	runner := pipeline.NewRunner(job)
	router := newTestRouter(runner)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/run", nil))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	// Second trigger while the run is blocked must be rejected.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/run", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 while running, got %d", w.Code)
	}

	close(job.release)
}

func TestStatsEndpointBeforeAnyRun(t *testing.T) {
	runner := pipeline.NewRunner(&stubJob{})
	router := newTestRouter(runner)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid stats body: %v", err)
	}
	if resp.Running || resp.CompletedAt != "" {
		t.Fatalf("expected empty stats, got %+v", resp)
	}
}

func TestHealthEndpointReportsSourceEnablement(t *testing.T) {
	runner := pipeline.NewRunner(&stubJob{})
	router := newTestRouter(runner)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Status  string          `json:"status"`
		Sources map[string]bool `json:"sources"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid health body: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("unexpected status %q", resp.Status)
	}
	if !resp.Sources["reddit"] || !resp.Sources["x"] || resp.Sources["linkedin"] {
		t.Fatalf("unexpected source enablement: %v", resp.Sources)
	}
}
