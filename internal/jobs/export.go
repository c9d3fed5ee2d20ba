package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/statement-importer/internal/notionsync"
	"github.com/dvloznov/statement-importer/internal/session"
)

// SessionLookup finds review sessions by ID.
type SessionLookup interface {
	Get(id string) (*session.Session, error)
}

// NewExportHandler returns a handler that uploads the active transactions of
// the job's session to Notion. Partial failures are retried; pages created by
// an earlier attempt are skipped by the uploader.
func NewExportHandler(sessions SessionLookup, uploader *notionsync.Uploader) JobHandler {
	return func(ctx context.Context, job Job) error {
		export, ok := job.(*ExportJob)
		if !ok {
			return Permanent(fmt.Errorf("unexpected job type %q", job.GetType()))
		}

		s, err := sessions.Get(export.SessionID)
		if err != nil {
			return Permanent(err)
		}

		res, err := uploader.WithDryRun(export.DryRun).Upload(ctx, s.Bank, s.Transactions())
		if err != nil {
			if errors.Is(err, notionsync.ErrNotConfigured) || errors.Is(err, notionsync.ErrNothingToUpload) {
				return Permanent(err)
			}
			return err
		}

		export.Result = &ExportSummary{
			Uploaded: res.Uploaded,
			Skipped:  res.Skipped,
			Failed:   res.Failed,
			Errors:   res.Errors,
		}
		if !res.Success() {
			return fmt.Errorf("%d of %d transactions failed to upload", res.Failed, res.Uploaded+res.Skipped+res.Failed)
		}
		return nil
	}
}
