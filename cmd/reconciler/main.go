package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"payswitch/internal/config"
	"payswitch/internal/dispatch"
	"payswitch/internal/jobs"
	"payswitch/internal/lock"
	"payswitch/internal/logger"
	"payswitch/internal/psp"
	"payswitch/internal/repository/memory"
	"payswitch/internal/scheduler"
	"payswitch/internal/service"
)

// Standalone reconciliation runner. With an in-memory store it only sees
// transactions it created itself, so it is mainly useful for exercising the
// reconciliation loop in isolation; a persistent store slots in through
// the same wiring.
func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.Bool("run-once", false, "Run one reconciliation cycle and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting reconciliation runner...", "log_level", cfg.Log.Level)

	// Initialize Repositories
	store := memory.NewStore()

	// Initialize Services
	locks := lock.NewCoordinator()
	accountSvc := service.NewAccountService(store.AccountRepository, store.UserRepository, locks)
	bankHealth := service.NewBankHealthRegistry()
	gateway := psp.NewMockGateway(cfg.PSP.SuccessProbability, cfg.PSP.PendingProbability, cfg.PSP.Seed)
	pool := dispatch.NewPool(cfg.Dispatch.Workers, cfg.Dispatch.QueueSize)
	paymentSvc := service.NewPaymentService(
		store.TransactionRepository,
		store.AccountRepository,
		accountSvc,
		gateway,
		pool,
		bankHealth,
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(paymentSvc, cfg)

	// Check if running a single cycle
	if *runOnce {
		logger.Info("Running one reconciliation cycle")
		jobRunner.ReconcilePending()
		pool.Stop()
		logger.Info("Reconciliation cycle completed")
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Reconciliation scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received")
	cronScheduler.Stop()
	pool.Stop()
	logger.Info("Reconciliation runner stopped")
}
