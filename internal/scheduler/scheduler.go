// Package scheduler runs the digest pipeline unattended on a cron
// schedule, for machines that export a browsing record every evening.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"daybrief/internal/logger"
)

// Scheduler triggers a job on a cron expression until its context ends.
type Scheduler struct {
	spec string
	job  func()
	cron *cron.Cron
}

// New validates the cron expression and returns a scheduler for the job.
func New(spec string, job func()) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return &Scheduler{spec: spec, job: job, cron: cron.New()}, nil
}

// Run starts the schedule and blocks until ctx is cancelled. The job runs
// sequentially; an invocation that overlaps the next tick delays it rather
// than running twice (cron's default single-goroutine job queue).
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, s.job); err != nil {
		return fmt.Errorf("failed to schedule job: %w", err)
	}

	logger.Info("Scheduler started", "cron", s.spec)
	s.cron.Start()

	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	logger.Info("Scheduler stopped")
	return ctx.Err()
}
