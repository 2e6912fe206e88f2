package progress

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs the job on a fixed interval until its context is done.
type Scheduler struct {
	job      *Job
	log      *zap.Logger
	interval time.Duration
}

// NewScheduler creates a scheduler that runs job every interval.
func NewScheduler(job *Job, log *zap.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{job: job, log: log, interval: interval}
}

// Run executes the job immediately and then on every tick until ctx is
// canceled. A failed run is logged; the next tick tries again.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("progress scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.job.Run(ctx); err != nil && ctx.Err() == nil {
		s.log.Error("progress run failed", zap.Error(err))
	}
}
