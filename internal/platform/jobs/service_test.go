package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunNowReturnsDetails(t *testing.T) {
	svc := New(nil)
	details, err := svc.RunNow(context.Background(), JobSessionPurge, func(context.Context) (any, error) {
		return map[string]int64{"purged": 2}, nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if details.(map[string]int64)["purged"] != 2 {
		t.Fatalf("unexpected details: %v", details)
	}

	_, err = svc.RunNow(context.Background(), JobSessionPurge, func(context.Context) (any, error) {
		return nil, errors.New("db down")
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestScheduledJobRuns(t *testing.T) {
	svc := New(nil)
	var runs atomic.Int32
	svc.Every(JobSessionPurge, 5*time.Millisecond, func(context.Context) (any, error) {
		runs.Add(1)
		return nil, nil
	})
	svc.Every("ignored", 0, func(context.Context) (any, error) {
		t.Error("zero interval job must not run")
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected scheduled runs, got %d", runs.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEnqueueRunsOnWorker(t *testing.T) {
	svc := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	done := make(chan struct{})
	svc.Enqueue("once", func(context.Context) (any, error) {
		close(done)
		return nil, nil
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueued job did not run")
	}
}
