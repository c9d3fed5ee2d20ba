// Package statement turns an uploaded file into a ParseResult.
package statement

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/statement-importer/internal/bankadapter"
	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/spreadsheet"
	"github.com/rs/zerolog"
)

// Parser runs decode, bank detection and extraction.
type Parser struct {
	registry *bankadapter.Registry
	log      zerolog.Logger
}

// NewParser creates a parser over the given registry. A nil registry means
// bankadapter.Default().
func NewParser(registry *bankadapter.Registry, log zerolog.Logger) *Parser {
	if registry == nil {
		registry = bankadapter.Default()
	}
	return &Parser{registry: registry, log: log}
}

// Parse never returns an error: every failure is reported in the result.
func (p *Parser) Parse(ctx context.Context, data []byte) (result domain.ParseResult) {
	var bank string
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Str("bank", bank).Msg("Statement parsing panicked")
			result = failure(fmt.Sprintf("unexpected error while parsing statement: %v", r), bank)
		}
	}()

	wb, err := spreadsheet.Decode(data)
	if err != nil {
		p.log.Warn().Err(err).Int("bytes", len(data)).Msg("Could not read spreadsheet")
		return failure(fmt.Sprintf("could not read spreadsheet: %v", err), "")
	}

	sheet := wb.First()
	adapter := p.registry.Resolve(sheet)
	if adapter == nil {
		p.log.Info().Str("format", wb.Format).Int("rows", sheet.Len()).Msg("Statement format not recognized")
		return failure("format not recognized, expected one of: "+strings.Join(p.registry.BankNames(), ", "), "")
	}
	bank = adapter.BankName()

	if err := ctx.Err(); err != nil {
		return failure(err.Error(), bank)
	}

	txs, err := adapter.Parse(sheet)
	if err != nil {
		p.log.Warn().Err(err).Str("bank", bank).Msg("Bank adapter failed")
		return failure(err.Error(), bank)
	}
	if len(txs) == 0 {
		p.log.Info().Str("bank", bank).Msg("No transactions extracted")
		return failure(bank+" recognized but no valid transactions found", bank)
	}

	p.log.Info().
		Str("bank", bank).
		Str("format", wb.Format).
		Int("transactions", len(txs)).
		Msg("Statement parsed")

	return domain.ParseResult{
		Success:      true,
		Transactions: txs,
		DetectedBank: bank,
	}
}

func failure(msg, bank string) domain.ParseResult {
	return domain.ParseResult{
		Success:      false,
		Transactions: []domain.ParsedTransaction{},
		Error:        msg,
		DetectedBank: bank,
	}
}
