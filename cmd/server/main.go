package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "payswitch/internal/api/http"
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

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting payment switch...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())

	// Initialize Repositories
	store := memory.NewStore()

	// Initialize Lock Coordinator
	locks := lock.NewCoordinator()

	// Initialize PSP Gateway
	gateway := psp.NewMockGateway(cfg.PSP.SuccessProbability, cfg.PSP.PendingProbability, cfg.PSP.Seed)
	logger.Info("Mock PSP gateway configured",
		"success_probability", cfg.PSP.SuccessProbability,
		"pending_probability", cfg.PSP.PendingProbability)

	// Initialize Dispatch Pool
	pool := dispatch.NewPool(cfg.Dispatch.Workers, cfg.Dispatch.QueueSize)
	logger.Info("Dispatch pool started", "workers", cfg.Dispatch.Workers, "queue_size", cfg.Dispatch.QueueSize)

	// Initialize Services
	userSvc := service.NewUserService(store.UserRepository)
	bankSvc := service.NewBankService(store.BankRepository)
	accountSvc := service.NewAccountService(store.AccountRepository, store.UserRepository, locks)
	bankHealth := service.NewBankHealthRegistry()
	resolver := service.NewRecipientResolver(store.UserRepository, store.AccountRepository)
	paymentSvc := service.NewPaymentService(
		store.TransactionRepository,
		store.AccountRepository,
		accountSvc,
		gateway,
		pool,
		bankHealth,
	)

	// Initialize Reconciliation Scheduler
	jobRunner := jobs.NewJobRunner(paymentSvc, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()

	// Initialize HTTP API
	handler := httpapi.NewHandler(userSvc, bankSvc, accountSvc, paymentSvc, resolver, bankHealth)
	router := httpapi.NewRouter(handler)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	// Stop the scheduler first so no new reconciliation work is queued, then
	// drain the dispatch pool so in-flight PSP calls finish.
	cronScheduler.Stop()
	pool.Stop()

	logger.Info("Payment switch stopped")
}
