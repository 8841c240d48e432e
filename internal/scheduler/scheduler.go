package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"payswitch/internal/jobs"
	"payswitch/internal/logger"
)

// Scheduler manages cron job scheduling. It is independently startable and
// stoppable, and multiple instances may run against the same store: the
// orchestrator's status compare-and-swap makes double-processing of one
// PENDING transaction harmless.
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Reconciler

	_, err := s.cron.AddFunc(cfg.CronSpec, s.jobs.ReconcilePending)
	if err != nil {
		logger.Error("Failed to register ReconcilePending job", "error", err)
	}

	logger.Info("Reconciliation job registered", "cron_spec", cfg.CronSpec)
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting reconciliation scheduler...")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for a running cycle to finish
func (s *Scheduler) Stop() {
	logger.Info("Stopping reconciliation scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Reconciliation scheduler stopped")
}

// IsRunning returns true if the scheduler has registered entries
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
