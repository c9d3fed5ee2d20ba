// Package pipeline turns an uploaded statement into an enriched review session.
package pipeline

import (
	"context"

	"github.com/dvloznov/statement-importer/internal/aiclassify"
	"github.com/dvloznov/statement-importer/internal/archive"
	"github.com/dvloznov/statement-importer/internal/logger"
	"github.com/dvloznov/statement-importer/internal/session"
)

// Importer wires the import steps together.
type Importer struct {
	Parser     StatementParser
	Suggester  session.Suggester
	Detector   session.RecurringDetector
	Classifier aiclassify.Classifier
	Archiver   *archive.Archiver
	Sessions   *session.Registry
}

// Pipeline builds the standard import pipeline.
func (im *Importer) Pipeline() *Pipeline {
	return NewPipeline(
		&ParseStep{Parser: im.Parser},
		&EnrichStep{Suggester: im.Suggester, Detector: im.Detector},
		&ClassifyStep{Classifier: im.Classifier},
		&SessionStep{Registry: im.Sessions},
		&ArchiveStep{Archiver: im.Archiver},
	)
}

// Import parses, enriches and classifies one file and opens a session over
// the result. The returned state always carries the parse result; on
// rejection the error wraps ErrStatementRejected.
func (im *Importer) Import(ctx context.Context, filename string, data []byte) (*ImportState, error) {
	log := logger.FromContext(ctx).With().Str("filename", filename).Logger()
	ctx = logger.WithContext(ctx, log)

	state := &ImportState{Filename: filename, Data: data}
	if err := im.Pipeline().Execute(ctx, state); err != nil {
		log.Warn().Err(err).Msg("Import stopped")
		return state, err
	}

	log.Info().
		Str("session_id", state.Session.ID).
		Str("bank", state.Session.Bank).
		Int("transactions", len(state.Transactions)).
		Int("ai_queued", state.AI.Queued).
		Int("ai_classified", state.AI.Classified).
		Msg("Statement imported")
	return state, nil
}
