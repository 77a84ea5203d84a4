package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/tripline/eventgate/internal/core/config"
	"github.com/tripline/eventgate/internal/core/storage"
	"github.com/tripline/eventgate/internal/core/storage/kafka"
	"github.com/tripline/eventgate/internal/core/storage/postgres"
	"github.com/tripline/eventgate/internal/engine"
	"github.com/tripline/eventgate/internal/ingestion"
	"github.com/tripline/eventgate/internal/migrations"
	"github.com/tripline/eventgate/internal/projection"
	schemaapi "github.com/tripline/eventgate/internal/schema/api"
	"github.com/tripline/eventgate/internal/server"
	"github.com/tripline/eventgate/internal/validate"
	"github.com/tripline/eventgate/internal/validation"
)

func main() {
	configPath := flag.String("config", "eventgate.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration (compiles the schema catalog)
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"server", cfg.Server,
		"validation", cfg.Validation,
		"publish", cfg.Publish,
		"event_types", cfg.Registry.Len())

	// 2. Initialize Engine
	eng, err := engine.New(cfg.Registry,
		engine.WithValidator(validate.New(
			validate.WithFutureSkew(cfg.Validation.FutureSkewDuration()),
			validate.WithStaleAfter(cfg.Validation.StaleAfterDuration()),
		)),
	)
	if err != nil {
		slog.Error("Failed to initialize engine", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Storage (PostgreSQL)
	dbAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer dbAdapter.Close()

	// 3.1. Run Database Migrations, then prepare statements against the migrated schema
	if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	if err := dbAdapter.Prepare(); err != nil {
		slog.Error("Failed to prepare database adapter", "error", err)
		os.Exit(1)
	}

	validatedStore := postgres.NewValidatedAdapter(dbAdapter.DB())

	// 4. Initialize curated publisher (optional)
	var publisher storage.Publisher
	if cfg.Publish.Enabled() {
		kp, err := kafka.NewPublisher(cfg.Publish.Brokers, cfg.Publish.Topic)
		if err != nil {
			slog.Error("Failed to initialize publisher", "error", err)
			os.Exit(1)
		}
		defer kp.Close()
		publisher = kp
	} else {
		slog.Info("Curated publishing disabled (no brokers configured)")
	}

	// 5. Initialize strict validation scheduler
	job := validation.NewJob(eng, dbAdapter, validatedStore, publisher, validation.BatchJobParameter{
		BatchSize:   cfg.Validation.BatchSize,
		WorkerCount: cfg.Validation.WorkerCount,
	})
	scheduler := validation.NewScheduler(cfg.Validation.IntervalDuration(), job)

	// 6. Initialize HTTP services
	ingestionSvc := ingestion.NewService(eng, dbAdapter, cfg.Server.MaxBodySizeMB)
	catalogSvc := schemaapi.NewService(eng)
	projectionSvc := projection.NewService(dbAdapter, validatedStore)

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), dbAdapter.DB(), cfg.Registry, server.Options{
		Mode:        cfg.Server.Mode,
		MetricsPath: metricsPath,
	})
	ingestionSvc.RegisterRoutes(srv.Engine)
	catalogSvc.RegisterRoutes(srv.Engine)
	projectionSvc.RegisterRoutes(srv.Engine)

	// 7. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	schedulerDone := make(chan struct{})
	if cfg.Validation.Enabled {
		go func() {
			defer close(schedulerDone)
			if err := scheduler.Start(ctx); err != nil {
				slog.Error("Scheduler stopped with error", "error", err)
			}
		}()
	} else {
		close(schedulerDone)
		slog.Info("Strict validation scheduler disabled by config")
	}

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
		cancel()
	}

	// The scheduler runs a final drain before returning; storage closes after it.
	<-schedulerDone
	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
