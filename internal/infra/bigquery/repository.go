// Package bigquery keeps the import history in BigQuery.
package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const (
	importsTable      = "imports"
	transactionsTable = "transactions"
	dateFormat        = "2006-01-02"
)

// Repository holds a shared BigQuery client for one dataset.
type Repository struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewRepository creates a repository for projectID.datasetID.
func NewRepository(ctx context.Context, projectID, datasetID string) (*Repository, error) {
	if projectID == "" {
		return nil, fmt.Errorf("NewRepository: project ID is required")
	}
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{client: client, projectID: projectID, datasetID: datasetID}, nil
}

// Close closes the BigQuery client connection.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *Repository) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", r.projectID, r.datasetID, name)
}

// EnsureTables creates the dataset tables when they do not exist yet.
func (r *Repository) EnsureTables(ctx context.Context) error {
	for _, ddl := range tableDDL(r.table(importsTable), r.table(transactionsTable)) {
		if err := r.runDDL(ctx, ddl); err != nil {
			return fmt.Errorf("EnsureTables: %w", err)
		}
	}
	return nil
}

func tableDDL(imports, transactions string) []string {
	return []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			import_id         STRING NOT NULL,
			filename          STRING,
			bank              STRING,
			gcs_uri           STRING,
			checksum_sha256   STRING,
			transaction_count INT64,
			upload_ts         TIMESTAMP NOT NULL
		)`, imports),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			transaction_id     STRING NOT NULL,
			import_id          STRING NOT NULL,
			line_no            INT64,
			transaction_date   DATE,
			raw_date           STRING,
			description        STRING,
			amount             NUMERIC,
			direction          STRING,
			category           STRING,
			suggested_category STRING,
			confidence         STRING,
			is_recurring       BOOL,
			created_ts         TIMESTAMP NOT NULL
		)
		PARTITION BY DATE(created_ts)`, transactions),
	}
}

func (r *Repository) runDDL(ctx context.Context, sql string) error {
	job, err := r.client.Query(sql).Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}

// InsertImport streams one import row.
func (r *Repository) InsertImport(ctx context.Context, row *ImportRow) error {
	inserter := r.client.DatasetInProject(r.projectID, r.datasetID).Table(importsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertImport: inserting row: %w", err)
	}
	return nil
}

// InsertTransactions streams a batch of transaction rows.
func (r *Repository) InsertTransactions(ctx context.Context, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}
	inserter := r.client.DatasetInProject(r.projectID, r.datasetID).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}
	return nil
}

// ListImports returns the most recent imports first.
func (r *Repository) ListImports(ctx context.Context, limit int) ([]*ImportRow, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.client.Query(fmt.Sprintf(`
		SELECT import_id, filename, bank, gcs_uri, checksum_sha256, transaction_count, upload_ts
		FROM %s
		ORDER BY upload_ts DESC
		LIMIT @limit
	`, r.table(importsTable)))
	q.Parameters = []bigquery.QueryParameter{{Name: "limit", Value: limit}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListImports: query read: %w", err)
	}

	var rows []*ImportRow
	for {
		var row ImportRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListImports: iter next: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

// FindImportByChecksum returns the first import of a file with the given
// checksum, or nil when the file was never imported.
func (r *Repository) FindImportByChecksum(ctx context.Context, checksum string) (*ImportRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT import_id, filename, bank, gcs_uri, checksum_sha256, transaction_count, upload_ts
		FROM %s
		WHERE checksum_sha256 = @checksum
		ORDER BY upload_ts
		LIMIT 1
	`, r.table(importsTable)))
	q.Parameters = []bigquery.QueryParameter{{Name: "checksum", Value: checksum}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindImportByChecksum: query read: %w", err)
	}

	var row ImportRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindImportByChecksum: iter next: %w", err)
	}
	return &row, nil
}

// QueryTransactionsByDateRange returns the archived transactions dated within
// [start, end], oldest first.
func (r *Repository) QueryTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]*TransactionRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			import_id,
			line_no,
			transaction_date,
			raw_date,
			description,
			amount,
			direction,
			category,
			suggested_category,
			confidence,
			is_recurring,
			created_ts
		FROM %s
		WHERE transaction_date >= @start_date
		  AND transaction_date <= @end_date
		ORDER BY transaction_date, line_no
	`, r.table(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "start_date", Value: start.Format(dateFormat)},
		{Name: "end_date", Value: end.Format(dateFormat)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryTransactionsByDateRange: query read: %w", err)
	}

	var rows []*TransactionRow
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryTransactionsByDateRange: iter next: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}
