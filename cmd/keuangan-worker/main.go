package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lantanajayadigital/sistem-keuangan/internal/amqp"
	"github.com/lantanajayadigital/sistem-keuangan/internal/config"
	applog "github.com/lantanajayadigital/sistem-keuangan/internal/log"
	"github.com/lantanajayadigital/sistem-keuangan/internal/services"
	"github.com/lantanajayadigital/sistem-keuangan/internal/storage"
	"github.com/lantanajayadigital/sistem-keuangan/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	applog.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting keuangan-worker")

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	processor := services.NewLaporanProcessor(repo, repo)
	laporanWorker := worker.NewLaporanWorker(amqpClient, processor, cfg.RebuildInterval)

	if err := laporanWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Worker error", "error", err)
		os.Exit(1)
	}

	slog.Info("Worker stopped gracefully")
}
