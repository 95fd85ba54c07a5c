package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bilancio/internal/amqp"
	"bilancio/internal/config"
	applog "bilancio/internal/log"
	"bilancio/internal/storage"
	"bilancio/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting bilancio-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	planWorker := worker.NewPlanSyncWorker(repo)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// On startup, reconcile plans against categories in case events were
	// lost while the worker was down.
	if err := planWorker.Reconcile(ctx); err != nil {
		logger.Error("Startup reconcile failed", "error", err)
		// Don't exit - the periodic sweep will retry
	}

	// Consume category.created events with automatic reconnect.
	go func() {
		dial := func() (*amqp.Client, error) {
			return amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		}
		handle := func(msg *amqp.CategoryCreatedMessage) error {
			return planWorker.HandleCategoryCreated(ctx, msg)
		}
		if err := amqp.ConsumeWithReconnect(ctx, dial, handle); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			cancel()
		}
	}()

	// Periodic reconcile sweep backstops lost events.
	go planWorker.Run(ctx, cfg.SyncInterval)

	<-ctx.Done()
	logger.Info("Worker stopped gracefully")
}
