package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/statement-importer/internal/api"
	"github.com/dvloznov/statement-importer/internal/api/handlers"
	"github.com/dvloznov/statement-importer/internal/app"
	"github.com/dvloznov/statement-importer/internal/config"
	"github.com/dvloznov/statement-importer/internal/jobs"
	"github.com/dvloznov/statement-importer/internal/jobs/inmemory"
	"github.com/dvloznov/statement-importer/internal/logger"
	"github.com/spf13/pflag"
)

func main() {
	// Parse command-line flags
	cfgFile := pflag.String("config", "", "Config file (default is ./config.yaml when present)")
	pflag.String("port", "8080", "HTTP server port (or set PORT env)")
	pflag.String("templates-path", "templates.yaml", "Category templates file (or set TEMPLATES_PATH env)")
	pflag.String("log-level", "info", "Log level (or set LOG_LEVEL env)")
	pflag.String("log-format", "console", "Log format: console or json (or set LOG_FORMAT env)")
	pflag.Parse()

	cfg, err := config.Build(*cfgFile, pflag.CommandLine)
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.APIToken == "" {
		log.Warn().Msg("No API token configured - the API is unauthenticated")
	}

	ctx := context.Background()

	services, err := app.New(ctx, cfg, log, app.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Close()

	var history handlers.ImportHistory
	if services.Repository != nil {
		if err := services.Repository.EnsureTables(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare archive tables")
		}
		history = services.Repository
	}

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	// Start worker in background to process export jobs
	workerCtx, cancelWorker := context.WithCancel(logger.WithContext(ctx, log))
	defer cancelWorker()

	exportHandler := jobs.NewExportHandler(services.Sessions, services.Uploader)
	log.Info().Msg("Starting job worker")
	if err := jobQueue.Start(workerCtx, exportHandler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job worker")
	}

	handler := api.NewRouter(api.Deps{
		Importer:  services.Importer,
		Sessions:  services.Sessions,
		Templates: services.Templates,
		Engine:    services.Engine,
		Publisher: jobQueue,
		JobStore:  jobStore,
		History:   history,
		AuthToken: cfg.APIToken,
		Log:       log,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Cancel worker context
	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Server exited")
}
