package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budget/internal/amqp"
	"budget/internal/cache"
	"budget/internal/cli"
	"budget/internal/config"
	"budget/internal/log"
	gsheet "budget/internal/sheets/google"
	"budget/internal/worker"

	"golang.org/x/sync/errgroup"
)

const (
	syncedCacheSize     = 10_000
	syncedCacheTTL      = 24 * time.Hour
	syncedCacheInterval = 10 * time.Minute
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg := config.Load()
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "info"
	}

	logger, err := cli.SetupLogger(cfg.LogLevel, os.Stdout)
	if err != nil {
		logger = log.New(log.DefaultConfig())
		logger.Error("Invalid log level", log.FieldError, err)
		os.Exit(1)
	}
	logger = logger.WithComponent(log.ComponentWorker)

	logger.Info("Starting budget-sync", log.FieldOperation, log.OpStartup)

	if err := cfg.ValidateSync(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete", log.FieldOperation, log.OpShutdown)
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	sheetsClient, err := gsheet.NewFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer amqpClient.Close()

	synced := cache.NewRecent[string](syncedCacheSize, syncedCacheTTL)
	syncWorker := worker.NewSyncWorker(sheetsClient, synced)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Consuming transaction events", "queue", cfg.AMQPQueue)
		err := amqpClient.ConsumeTransactionRecorded(gctx, syncWorker.HandleTransactionRecorded)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return synced.RunCleanup(gctx, syncedCacheInterval)
	})

	return g.Wait()
}
