package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestEveryRunsJob(t *testing.T) {
	s := New()
	var runs atomic.Int32
	if err := s.Every("@every 1s", "tick", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("every: %v", err)
	}
	if !s.IsRunning() {
		t.Fatalf("job not registered")
	}
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("job never ran")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestEveryRejectsBadSpec(t *testing.T) {
	s := New()
	if err := s.Every("whenever", "bad", func(context.Context) error { return nil }); err == nil {
		t.Fatalf("expected error for bad spec")
	}
}
