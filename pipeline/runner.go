package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"opspilot/types"
)

// Job is one unit of discovery work. Satisfied by *Pipeline.
type Job interface {
	Run(ctx context.Context) types.RunSummary
}

// Runner guards the pipeline so at most one run executes at a time, no
// matter whether the trigger came from the scheduler or the HTTP surface.
// It also retains the most recent summary for the stats endpoint.
type Runner struct {
	job Job

	mu      sync.Mutex
	running bool
	last    *types.RunSummary
	lastAt  time.Time
}

// NewRunner wraps a job with the single-run guard.
func NewRunner(job Job) *Runner {
	return &Runner{job: job}
}

// TryStart launches a run in the background. Returns false without starting
// anything when a run is already in progress.
func (r *Runner) TryStart() bool {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return false
	}
	r.running = true
	r.mu.Unlock()

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("Warning: discovery run panicked: %v", rec)
			}
			r.mu.Lock()
			r.running = false
			r.mu.Unlock()
		}()

		summary := r.job.Run(context.Background())

		r.mu.Lock()
		r.last = &summary
		r.lastAt = time.Now().UTC()
		r.mu.Unlock()
	}()
	return true
}

// Running reports whether a run is currently executing.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// LastSummary returns the most recent completed run's summary, if any.
func (r *Runner) LastSummary() (types.RunSummary, time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return types.RunSummary{}, time.Time{}, false
	}
	return *r.last, r.lastAt, true
}
