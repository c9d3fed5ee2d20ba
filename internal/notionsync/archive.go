package notionsync

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/statement-importer/internal/domain"
	bq "github.com/dvloznov/statement-importer/internal/infra/bigquery"
	"github.com/dvloznov/statement-importer/internal/logger"
)

// importLookupLimit bounds the imports read to resolve the bank of each row.
const importLookupLimit = 1000

// ArchiveSource reads the BigQuery import archive.
type ArchiveSource interface {
	ListImports(ctx context.Context, limit int) ([]*bq.ImportRow, error)
	QueryTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]*bq.TransactionRow, error)
}

// SyncArchive uploads the archived transactions dated within [start, end].
// Rows are uploaded per import, with the bank of that import, so their Import
// Keys (occurrence suffixes included) match the ones written when the
// statement was exported directly. Pages that already exist are skipped.
func SyncArchive(ctx context.Context, src ArchiveSource, u *Uploader, start, end time.Time) (*UploadResult, error) {
	if !u.Configured() {
		return nil, ErrNotConfigured
	}
	log := logger.FromContext(ctx)

	rows, err := src.QueryTransactionsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("SyncArchive: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNothingToUpload
	}

	imports, err := src.ListImports(ctx, importLookupLimit)
	if err != nil {
		return nil, fmt.Errorf("SyncArchive: %w", err)
	}
	bankOf := make(map[string]string, len(imports))
	for _, imp := range imports {
		bankOf[imp.ImportID] = imp.Bank
	}

	// Rows arrive by date then line number; within one import that is the
	// order the statement was reviewed and exported in.
	var importIDs []string
	byImport := make(map[string][]domain.Transaction)
	total := &UploadResult{DryRun: u.cfg.DryRun}
	for _, row := range rows {
		tx, err := row.Transaction()
		if err != nil {
			log.Warn().Err(err).Str("import_id", row.ImportID).Msg("Skipping unreadable archived transaction")
			total.Failed++
			total.Errors = append(total.Errors, err.Error())
			continue
		}
		if _, ok := byImport[row.ImportID]; !ok {
			importIDs = append(importIDs, row.ImportID)
		}
		byImport[row.ImportID] = append(byImport[row.ImportID], tx)
	}

	for _, id := range importIDs {
		res, err := u.Upload(ctx, bankOf[id], byImport[id])
		if err != nil {
			return total, fmt.Errorf("SyncArchive: import %s: %w", id, err)
		}
		total.Uploaded += res.Uploaded
		total.Skipped += res.Skipped
		total.Failed += res.Failed
		total.Errors = append(total.Errors, res.Errors...)
	}

	log.Info().
		Time("start_date", start).
		Time("end_date", end).
		Int("uploaded", total.Uploaded).
		Int("skipped", total.Skipped).
		Int("failed", total.Failed).
		Msg("Archive sync completed")
	return total, nil
}
