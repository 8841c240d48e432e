package jobs

import (
	"payswitch/internal/config"
	"payswitch/internal/logger"
	"payswitch/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	payments service.PaymentService
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(payments service.PaymentService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		payments: payments,
		config:   cfg,
	}
}

// Config exposes the runner's configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Debug("Starting job", "job", jobName)
	jobFunc()
	logger.Debug("Job completed", "job", jobName)
}
