// Package app wires the importer's components from a Config.
package app

import (
	"context"
	"fmt"

	"github.com/dvloznov/statement-importer/internal/aiclassify"
	"github.com/dvloznov/statement-importer/internal/archive"
	"github.com/dvloznov/statement-importer/internal/categorize"
	"github.com/dvloznov/statement-importer/internal/config"
	bq "github.com/dvloznov/statement-importer/internal/infra/bigquery"
	"github.com/dvloznov/statement-importer/internal/infra/gcs"
	"github.com/dvloznov/statement-importer/internal/notionsync"
	"github.com/dvloznov/statement-importer/internal/pipeline"
	"github.com/dvloznov/statement-importer/internal/recurring"
	"github.com/dvloznov/statement-importer/internal/session"
	"github.com/dvloznov/statement-importer/internal/statement"
	"github.com/dvloznov/statement-importer/internal/templates"
	"github.com/rs/zerolog"
)

// Services are the long-lived components shared by the server and the CLI.
type Services struct {
	Templates  *templates.FileStore
	Engine     *categorize.Engine
	Parser     *statement.Parser
	Classifier *aiclassify.GeminiClassifier
	Uploader   *notionsync.Uploader
	Archiver   *archive.Archiver
	Sessions   *session.Registry
	Importer   *pipeline.Importer

	// Repository is nil unless the BigQuery archive is configured.
	Repository *bq.Repository

	closers []func() error
}

// Options trims what New connects to.
type Options struct {
	// SkipArchive leaves GCS and BigQuery untouched.
	SkipArchive bool
}

// New builds the services described by cfg. Optional backends that are not
// configured are left out; New only fails when a configured backend cannot
// be reached.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts Options) (*Services, error) {
	s := &Services{
		Templates: templates.NewFileStore(cfg.TemplatesPath, log),
		Sessions:  session.NewRegistry(),
	}
	s.Engine = categorize.NewEngine(s.Templates)
	s.Parser = statement.NewParser(nil, log)
	s.Classifier = aiclassify.NewGeminiClassifier(cfg.GeminiAPIKey, cfg.GeminiModel)

	var notion notionsync.NotionService
	if cfg.NotionConfigured() {
		notion = notionsync.NewNotionClient(cfg.NotionToken)
	}
	s.Uploader = notionsync.NewUploader(notion, notionsync.Config{
		DatabaseID: cfg.NotionDatabaseID,
		AccountID:  cfg.NotionAccountID,
	})

	if !opts.SkipArchive {
		if err := s.connectArchive(ctx, cfg); err != nil {
			s.Close()
			return nil, err
		}
	}

	s.Importer = &pipeline.Importer{
		Parser:     s.Parser,
		Suggester:  s.Engine,
		Detector:   recurring.Detector{},
		Classifier: s.Classifier,
		Archiver:   s.Archiver,
		Sessions:   s.Sessions,
	}

	log.Info().
		Str("templates", cfg.TemplatesPath).
		Bool("ai", s.Classifier.Available()).
		Bool("notion", s.Uploader.Configured()).
		Bool("archive", s.Archiver.Enabled()).
		Msg("Services ready")
	return s, nil
}

func (s *Services) connectArchive(ctx context.Context, cfg *config.Config) error {
	var objects archive.ObjectStore
	if cfg.GCSBucket != "" {
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("New: %w", err)
		}
		s.closers = append(s.closers, client.Close)
		objects = client
	}

	var repo archive.ImportRepository
	if cfg.ArchiveConfigured() {
		r, err := bq.NewRepository(ctx, cfg.GCPProject, cfg.BQDataset)
		if err != nil {
			return fmt.Errorf("New: %w", err)
		}
		s.closers = append(s.closers, r.Close)
		s.Repository = r
		repo = r
	}

	if objects != nil || repo != nil {
		s.Archiver = archive.NewArchiver(objects, cfg.GCSBucket, repo)
	}
	return nil
}

// Close releases every client opened by New.
func (s *Services) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
