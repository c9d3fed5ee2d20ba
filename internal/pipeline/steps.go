package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/statement-importer/internal/aiclassify"
	"github.com/dvloznov/statement-importer/internal/archive"
	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/logger"
	"github.com/dvloznov/statement-importer/internal/session"
)

// ErrStatementRejected is returned when the uploaded file did not yield any
// transactions. The parse result in the state carries the diagnostic.
var ErrStatementRejected = errors.New("statement rejected")

// Step represents a single step in the import pipeline.
type Step interface {
	Execute(ctx context.Context, state *ImportState) error
}

// ImportState holds the shared state across all pipeline steps.
type ImportState struct {
	Filename string
	Data     []byte

	Result       domain.ParseResult
	Transactions []domain.Transaction
	AI           aiclassify.Outcome
	Session      *session.Session
	ArchiveURI   string
	ArchiveErr   error
}

// StatementParser turns raw file bytes into a parse result.
type StatementParser interface {
	Parse(ctx context.Context, data []byte) domain.ParseResult
}

// ParseStep parses the uploaded file.
type ParseStep struct {
	Parser StatementParser
}

func (s *ParseStep) Execute(ctx context.Context, state *ImportState) error {
	state.Result = s.Parser.Parse(ctx, state.Data)
	if !state.Result.Success {
		return fmt.Errorf("%w: %s", ErrStatementRejected, state.Result.Error)
	}
	return nil
}

// EnrichStep assigns IDs, category suggestions and recurring flags.
type EnrichStep struct {
	Suggester session.Suggester
	Detector  session.RecurringDetector
}

func (s *EnrichStep) Execute(_ context.Context, state *ImportState) error {
	state.Transactions = session.Enrich(state.Result.Transactions, s.Suggester, s.Detector)
	return nil
}

// ClassifyStep sends low-confidence transactions to the AI classifier. A
// failed call leaves the heuristic suggestions in place.
type ClassifyStep struct {
	Classifier aiclassify.Classifier
}

func (s *ClassifyStep) Execute(ctx context.Context, state *ImportState) error {
	state.AI = aiclassify.Apply(ctx, s.Classifier, state.Transactions)
	return nil
}

// SessionStep opens the review session.
type SessionStep struct {
	Registry *session.Registry
}

func (s *SessionStep) Execute(_ context.Context, state *ImportState) error {
	state.Session = session.New(state.Result.DetectedBank, state.Filename, state.Transactions)
	if s.Registry != nil {
		s.Registry.Put(state.Session)
	}
	return nil
}

// ArchiveStep stores the raw file and the enriched transactions. Archive
// failures are logged and recorded in the state; they never fail the import.
type ArchiveStep struct {
	Archiver *archive.Archiver
}

func (s *ArchiveStep) Execute(ctx context.Context, state *ImportState) error {
	if !s.Archiver.Enabled() || state.Session == nil {
		return nil
	}
	uri, err := s.Archiver.Archive(ctx, archive.Record{
		ImportID:     state.Session.ID,
		Filename:     state.Filename,
		Bank:         state.Session.Bank,
		Data:         state.Data,
		Transactions: state.Session.Transactions(),
	})
	state.ArchiveURI = uri
	if err != nil {
		state.ArchiveErr = err
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("import_id", state.Session.ID).Msg("Archiving import failed")
	}
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *ImportState) error {
	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}
