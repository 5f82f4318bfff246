package pipeline

import (
	"context"
	"testing"
	"time"

	"opspilot/types"
)

type blockingJob struct {
	release chan struct{}
	summary types.RunSummary
}

func (j *blockingJob) Run(ctx context.Context) types.RunSummary {
	<-j.release
	return j.summary
}

func TestRunnerRejectsConcurrentStart(t *testing.T) {
	job := &blockingJob{release: make(chan struct{}), summary: types.RunSummary{Saved: 2}}
	runner := NewRunner(job)

	if !runner.TryStart() {
		t.Fatal("first start must succeed")
	}
	waitFor(t, func() bool { return runner.Running() })

	if runner.TryStart() {
		t.Fatal("second start must be rejected while running")
	}

	close(job.release)
	waitFor(t, func() bool { return !runner.Running() })

	summary, _, ok := runner.LastSummary()
	if !ok || summary.Saved != 2 {
		t.Fatalf("expected recorded summary, got %+v ok=%v", summary, ok)
	}

	if !runner.TryStart() {
		t.Fatal("start must succeed again after the previous run finished")
	}
}

func TestRunnerLastSummaryEmptyBeforeFirstRun(t *testing.T) {
	runner := NewRunner(&blockingJob{release: make(chan struct{})})
	if _, _, ok := runner.LastSummary(); ok {
		t.Fatal("expected no summary before any run")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
