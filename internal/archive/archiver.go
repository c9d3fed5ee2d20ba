// Package archive keeps a copy of every imported statement: the raw file in
// Cloud Storage and the reviewed transactions in BigQuery.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/statement-importer/internal/domain"
	bq "github.com/dvloznov/statement-importer/internal/infra/bigquery"
	"github.com/dvloznov/statement-importer/internal/infra/gcs"
	"github.com/dvloznov/statement-importer/internal/logger"
)

// ObjectStore uploads raw statement files.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, object string, data []byte, contentType string) (string, error)
}

// ImportRepository persists import history.
type ImportRepository interface {
	FindImportByChecksum(ctx context.Context, checksum string) (*bq.ImportRow, error)
	InsertImport(ctx context.Context, row *bq.ImportRow) error
	InsertTransactions(ctx context.Context, rows []*bq.TransactionRow) error
}

// Record is one import to archive.
type Record struct {
	ImportID     string
	Filename     string
	Bank         string
	Data         []byte
	Transactions []domain.Transaction
}

// Archiver writes records to the configured backends. Either backend may be
// nil; a nil Archiver archives nothing.
type Archiver struct {
	objects ObjectStore
	bucket  string
	repo    ImportRepository
	now     func() time.Time
}

// NewArchiver creates an archiver. The raw file is uploaded only when both
// objects and bucket are set.
func NewArchiver(objects ObjectStore, bucket string, repo ImportRepository) *Archiver {
	return &Archiver{objects: objects, bucket: bucket, repo: repo, now: time.Now}
}

// Enabled reports whether any backend is configured.
func (a *Archiver) Enabled() bool {
	return a != nil && ((a.objects != nil && a.bucket != "") || a.repo != nil)
}

// Archive uploads the raw file and records the import with its transactions.
// It returns the gs:// URI of the uploaded file, empty when no upload happened.
// A file whose checksum is already recorded is not archived again; the URI of
// the earlier import is returned instead.
func (a *Archiver) Archive(ctx context.Context, rec Record) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	log := logger.FromContext(ctx)
	now := a.now().UTC()
	checksum := Checksum(rec.Data)

	if a.repo != nil {
		prev, err := a.repo.FindImportByChecksum(ctx, checksum)
		if err != nil {
			return "", fmt.Errorf("Archive: %w", err)
		}
		if prev != nil {
			log.Info().
				Str("import_id", rec.ImportID).
				Str("previous_import_id", prev.ImportID).
				Msg("Statement already archived")
			return prev.GCSURI.StringVal, nil
		}
	}

	var uri string
	if a.objects != nil && a.bucket != "" {
		object := gcs.ObjectName(now, rec.ImportID, rec.Filename)
		u, err := a.objects.Upload(ctx, a.bucket, object, rec.Data, gcs.ContentType(rec.Filename))
		if err != nil {
			return "", fmt.Errorf("Archive: uploading statement: %w", err)
		}
		uri = u
		log.Info().Str("gcs_uri", uri).Str("import_id", rec.ImportID).Msg("Statement file archived")
	}

	if a.repo == nil {
		return uri, nil
	}

	importRow := &bq.ImportRow{
		ImportID:         rec.ImportID,
		Filename:         rec.Filename,
		Bank:             rec.Bank,
		GCSURI:           bigquery.NullString{StringVal: uri, Valid: uri != ""},
		ChecksumSHA256:   checksum,
		TransactionCount: int64(len(rec.Transactions)),
		UploadTS:         now,
	}
	if err := a.repo.InsertImport(ctx, importRow); err != nil {
		return uri, fmt.Errorf("Archive: %w", err)
	}

	rows := bq.NewTransactionRows(rec.ImportID, rec.Transactions, now)
	if err := a.repo.InsertTransactions(ctx, rows); err != nil {
		return uri, fmt.Errorf("Archive: %w", err)
	}

	log.Info().
		Str("import_id", rec.ImportID).
		Int("transactions", len(rows)).
		Msg("Import recorded")
	return uri, nil
}

// Checksum returns the hex SHA-256 of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
