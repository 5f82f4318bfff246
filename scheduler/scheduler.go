package scheduler

import (
	"context"
	"log"
	"time"
)

// Starter is anything that can kick off a discovery run. Satisfied by
// *pipeline.Runner.
type Starter interface {
	TryStart() bool
}

// Scheduler triggers a discovery run at a fixed interval. The first run fires
// immediately on Start.
type Scheduler struct {
	runner   Starter
	interval time.Duration
}

func New(runner Starter, interval time.Duration) *Scheduler {
	return &Scheduler{runner: runner, interval: interval}
}

// Start blocks until ctx is cancelled, firing runs on the interval. A tick
// that lands while the previous run is still executing is skipped.
func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("Scheduler started, interval %s", s.interval)

	s.fire()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.fire()
		}
	}
}

func (s *Scheduler) fire() {
	if !s.runner.TryStart() {
		log.Println("Warning: previous discovery run still in progress, skipping scheduled run")
	}
}
