package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingStarter struct {
	starts atomic.Int32
	accept bool
}

func (c *countingStarter) TryStart() bool {
	c.starts.Add(1)
	return c.accept
}

func TestSchedulerFiresImmediatelyAndOnTicks(t *testing.T) {
	starter := &countingStarter{accept: true}
	s := New(starter, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Millisecond)
	defer cancel()
	s.Start(ctx)

	// One immediate fire plus at least two ticks.
	if n := starter.starts.Load(); n < 3 {
		t.Fatalf("expected at least 3 fires, got %d", n)
	}
}

func TestSchedulerToleratesRejectedStarts(t *testing.T) {
	starter := &countingStarter{accept: false}
	s := New(starter, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Millisecond)
	defer cancel()
	s.Start(ctx)

	if n := starter.starts.Load(); n < 2 {
		t.Fatalf("rejected starts must not stop the scheduler, got %d fires", n)
	}
}
