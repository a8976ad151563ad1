package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pushlab/push-analytics/internal/config"
	"github.com/pushlab/push-analytics/internal/database"
	"github.com/pushlab/push-analytics/internal/modules/export"
	"github.com/pushlab/push-analytics/internal/modules/export/jobs"
	"github.com/pushlab/push-analytics/internal/modules/recommend"
	"github.com/pushlab/push-analytics/internal/scheduler"
	"github.com/pushlab/push-analytics/internal/server"
	"github.com/pushlab/push-analytics/internal/store"
	"github.com/pushlab/push-analytics/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(logger.Config{Level: "info"})
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Push Analytics")

	// Initialize database
	db, err := database.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	st := store.NewPostgresStore(db, log)
	svc := recommend.NewService(st, log)
	exporter := export.NewBatchExporter(st, svc, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	// Register background jobs
	nightly := jobs.NewNightlyExport(exporter, cfg.ExportDir, export.MaxBatchCustomers, log)
	if err := sched.AddJob(cfg.ExportSchedule, nightly); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	if err := sched.AddJob("@every 6h", scheduler.NewHealthCheckJob(db, st, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:      cfg.Port,
		Log:       log,
		Store:     st,
		DB:        db,
		Recommend: svc,
		Exporter:  exporter,
		DevMode:   cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
