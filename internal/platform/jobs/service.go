package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const JobSessionPurge = "session_purge"

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

type schedule struct {
	job      job
	interval time.Duration
}

// Service runs background maintenance jobs on a single worker.
type Service struct {
	queue     chan job
	mu        sync.Mutex
	schedules []schedule
	logger    *slog.Logger
}

func New(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{queue: make(chan job, 128), logger: logger}
}

// Every registers run to be enqueued at interval once the service starts.
// Non-positive intervals are ignored.
func (s *Service) Every(jobType string, interval time.Duration, run func(context.Context) (any, error)) {
	if interval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, schedule{job: job{Type: jobType, Run: run}, interval: interval})
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	s.mu.Lock()
	schedules := append([]schedule(nil), s.schedules...)
	s.mu.Unlock()
	for _, sched := range schedules {
		go s.schedule(ctx, sched)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		s.logger.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.logger.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	start := time.Now()
	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	s.logger.Info("job run", "jobType", j.Type, "status", status, "durationMs", time.Since(start).Milliseconds(), "details", details)
	return details, err
}

func (s *Service) schedule(ctx context.Context, sched schedule) {
	ticker := time.NewTicker(sched.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sched.job.Type, sched.job.Run)
		}
	}
}
