package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/statement-importer/internal/app"
	"github.com/dvloznov/statement-importer/internal/config"
	"github.com/dvloznov/statement-importer/internal/logger"
	"github.com/dvloznov/statement-importer/internal/notionsync"
	"github.com/spf13/pflag"
)

func main() {
	// Parse CLI flags
	cfgFile := pflag.String("config", "", "Config file (default is ./config.yaml when present)")
	startDateStr := pflag.String("start-date", "", "Start date in YYYY-MM-DD format (required)")
	endDateStr := pflag.String("end-date", "", "End date in YYYY-MM-DD format (required)")
	dryRun := pflag.Bool("dry-run", false, "Dry run mode - preview changes without syncing")
	pflag.String("log-level", "info", "Log level")
	pflag.Parse()

	cfg, err := config.Build(*cfgFile, pflag.CommandLine)
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logger
	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Validate required flags
	if *startDateStr == "" {
		log.Fatal().Msg("Error: --start-date is required")
	}
	if *endDateStr == "" {
		log.Fatal().Msg("Error: --end-date is required")
	}
	if !cfg.NotionConfigured() {
		log.Fatal().Msg("Error: NOTION_TOKEN and NOTION_DATABASE_ID are required")
	}
	if !cfg.ArchiveConfigured() {
		log.Fatal().Msg("Error: GCP_PROJECT and BQ_DATASET are required")
	}

	// Parse dates
	startDate, err := time.Parse("2006-01-02", *startDateStr)
	if err != nil {
		log.Fatal().Err(err).Str("start_date", *startDateStr).Msg("Error: invalid start-date format, expected YYYY-MM-DD")
	}

	endDate, err := time.Parse("2006-01-02", *endDateStr)
	if err != nil {
		log.Fatal().Err(err).Str("end_date", *endDateStr).Msg("Error: invalid end-date format, expected YYYY-MM-DD")
	}

	// Validate date range
	if endDate.Before(startDate) {
		log.Fatal().
			Time("start_date", startDate).
			Time("end_date", endDate).
			Msg("Error: end-date must be after start-date")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("start_date", *startDateStr).
		Str("end_date", *endDateStr).
		Bool("dry_run", *dryRun).
		Msg("Starting Notion sync")

	services, err := app.New(ctx, cfg, log, app.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Close()

	res, err := notionsync.SyncArchive(ctx, services.Repository, services.Uploader.WithDryRun(*dryRun), startDate, endDate)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Printf("Sync completed: %d uploaded, %d skipped, %d failed.\n", res.Uploaded, res.Skipped, res.Failed)
}
