// Package notionsync uploads reviewed transactions to a Notion database.
package notionsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/logger"
	"github.com/jomei/notionapi"
)

const (
	// BatchSize defines the number of transactions to process in a single batch
	BatchSize = 100
)

var (
	ErrNotConfigured   = errors.New("notion is not configured")
	ErrNothingToUpload = errors.New("no transactions to upload")
)

// Config selects the target database.
type Config struct {
	DatabaseID string
	// AccountID is the page ID of the account the transactions belong to.
	AccountID string
	DryRun    bool
}

// UploadResult reports what an upload did.
type UploadResult struct {
	Uploaded int      `json:"uploaded"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
	DryRun   bool     `json:"dry_run,omitempty"`
}

// Success reports whether every transaction was either uploaded or skipped.
func (r *UploadResult) Success() bool {
	return r.Failed == 0
}

// Uploader creates one Notion page per transaction.
type Uploader struct {
	client NotionService
	cfg    Config
}

// NewUploader creates an uploader. client may be nil when Notion is not set up.
func NewUploader(client NotionService, cfg Config) *Uploader {
	return &Uploader{client: client, cfg: cfg}
}

// WithDryRun returns a copy of u with dry-run mode set.
func (u *Uploader) WithDryRun(dryRun bool) *Uploader {
	if u == nil {
		return nil
	}
	c := *u
	c.cfg.DryRun = dryRun
	return &c
}

// Configured reports whether uploads can be attempted.
func (u *Uploader) Configured() bool {
	return u != nil && u.client != nil && u.cfg.DatabaseID != ""
}

// Upload sends the transactions of one statement to Notion. Transactions
// whose Import Key already exists in the database are skipped; identical rows
// within txs are all uploaded under distinct keys (see ImportKeys). Failures
// of single pages are collected in the result; only setup errors and a failed
// lookup of existing pages abort the upload.
func (u *Uploader) Upload(ctx context.Context, bank string, txs []domain.Transaction) (*UploadResult, error) {
	if !u.Configured() {
		return nil, ErrNotConfigured
	}
	if len(txs) == 0 {
		return nil, ErrNothingToUpload
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("bank", bank).
		Int("transactions", len(txs)).
		Bool("dry_run", u.cfg.DryRun).
		Msg("Starting upload to Notion")

	pages, err := queryAllNotionPages(ctx, u.client, u.cfg.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("Upload: querying existing pages: %w", err)
	}

	existing := make(map[string]bool, len(pages))
	for _, page := range pages {
		if key := extractImportKey(page); key != "" {
			existing[key] = true
		}
	}
	log.Info().Int("existing_keys", len(existing)).Msg("Retrieved existing Notion pages")

	keys := ImportKeys(bank, txs)

	result := &UploadResult{DryRun: u.cfg.DryRun}
	for i := 0; i < len(txs); i += BatchSize {
		end := i + BatchSize
		if end > len(txs) {
			end = len(txs)
		}
		log.Debug().Int("batch_start", i).Int("batch_end", end).Msg("Processing batch")

		for j := i; j < end; j++ {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			tx, key := txs[j], keys[j]
			if existing[key] {
				result.Skipped++
				continue
			}

			if u.cfg.DryRun {
				log.Info().
					Int("transaction_id", tx.ID).
					Str("import_key", key).
					Msg("[DRY RUN] Would create new Notion page")
				result.Uploaded++
				continue
			}

			props := TransactionToNotionProperties(bank, tx, key, u.cfg.AccountID)
			page, err := u.client.CreatePage(ctx, u.cfg.DatabaseID, props)
			if err != nil {
				log.Warn().
					Err(err).
					Int("transaction_id", tx.ID).
					Msg("Failed to create Notion page")
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("transaction %d (%s): %v", tx.ID, tx.Description, err))
				continue
			}
			log.Debug().
				Int("transaction_id", tx.ID).
				Str("page_id", string(page.ID)).
				Msg("Created Notion page")
			result.Uploaded++
		}
	}

	log.Info().
		Int("uploaded", result.Uploaded).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Upload to Notion completed")
	return result, nil
}

// queryAllNotionPages queries all pages from a Notion database and returns them.
// Handles pagination automatically.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}

		// Only set StartCursor if we have a cursor value
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
