package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lantanajayadigital/sistem-keuangan/internal/amqp"
	"github.com/lantanajayadigital/sistem-keuangan/internal/auth"
	"github.com/lantanajayadigital/sistem-keuangan/internal/config"
	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
	"github.com/lantanajayadigital/sistem-keuangan/internal/export"
	apphttp "github.com/lantanajayadigital/sistem-keuangan/internal/http"
	applog "github.com/lantanajayadigital/sistem-keuangan/internal/log"
	"github.com/lantanajayadigital/sistem-keuangan/internal/services"
	"github.com/lantanajayadigital/sistem-keuangan/internal/storage"
)

func main() {
	// .env is for local development; missing files are fine.
	_ = godotenv.Load()

	cfg := config.Load()
	applog.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bootstrapAdmin(ctx, repo, cfg); err != nil {
		slog.Error("Failed to bootstrap admin user", "error", err)
		os.Exit(1)
	}

	// The API stays up without the broker; reports fall back to the
	// worker's periodic rebuild once the broker returns.
	var publisher services.EventPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Warn("AMQP unavailable, transaction events disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	var exporter apphttp.LaporanExporter
	if cfg.ExportEnabled() {
		sheets, err := export.NewSheetsExporter(ctx, export.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			slog.Error("Failed to initialize spreadsheet exporter", "error", err)
			os.Exit(1)
		}
		exporter = sheets
		slog.Info("Spreadsheet export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	authService := auth.NewService(repo, cfg.TokenTTL)
	go purgeSessions(ctx, authService)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Repo:      repo,
		Transaksi: services.NewTransaksiService(repo, publisher),
		Auth:      authService,
		Dashboard: services.NewDashboardService(repo),
		Generator: services.NewSaldoGenerator(repo, repo),
		Exporter:  exporter,
		UploadDir: cfg.UploadDir,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	slog.Info("Starting keuangan server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Server stopped gracefully")
}

// bootstrapAdmin seeds the first admin account when the users table is
// empty and ADMIN_PASSWORD is set.
func bootstrapAdmin(ctx context.Context, repo *storage.SQLiteRepository, cfg *config.Config) error {
	count, err := repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.AdminPassword == "" {
		slog.Warn("Users table is empty and ADMIN_PASSWORD is not set, no login possible")
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	_, err = repo.CreateUser(ctx, core.User{
		Name:         "Administrator",
		Username:     cfg.AdminUsername,
		Role:         core.RoleAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}

	slog.Info("Bootstrapped admin user", "username", cfg.AdminUsername)
	return nil
}

func purgeSessions(ctx context.Context, authService *auth.Service) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			authService.PurgeExpired(ctx)
		}
	}
}
