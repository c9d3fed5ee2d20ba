package main

import (
	"fmt"
	"path/filepath"

	"github.com/dvloznov/statement-importer/internal/app"
	"github.com/dvloznov/statement-importer/internal/logger"
	"github.com/spf13/cobra"
)

func newUploadCmd() *cobra.Command {
	var dryRun, archive bool

	cmd := &cobra.Command{
		Use:   "upload <file|gs://bucket/object>",
		Short: "Import a statement and upload its transactions to Notion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, services, err := setup(cmd, app.Options{SkipArchive: !archive})
			if err != nil {
				return err
			}
			defer services.Close()
			log := logger.FromContext(ctx)

			uploader := services.Uploader.WithDryRun(dryRun)
			if !dryRun && !uploader.Configured() {
				return fmt.Errorf("Notion is not configured (set NOTION_TOKEN and NOTION_DATABASE_ID)")
			}

			filename, data, err := readStatement(ctx, log, args[0])
			if err != nil {
				return err
			}

			state, err := services.Importer.Import(ctx, filepath.Base(filename), data)
			if err != nil {
				if state != nil && state.Result.Error != "" {
					return fmt.Errorf("%s", state.Result.Error)
				}
				return err
			}
			if state.ArchiveErr != nil {
				log.Warn().Err(state.ArchiveErr).Msg("Statement was not archived")
			}

			txs := state.Session.Transactions()
			res, err := uploader.Upload(ctx, state.Session.Bank, txs)
			if err != nil {
				return err
			}

			prefix := ""
			if res.DryRun {
				prefix = "[dry run] "
			}
			fmt.Printf("%s%s: %d uploaded, %d skipped, %d failed\n",
				prefix, state.Session.Bank, res.Uploaded, res.Skipped, res.Failed)
			for _, e := range res.Errors {
				fmt.Printf("  %s\n", e)
			}
			if !res.Success() {
				return fmt.Errorf("%d transactions failed to upload", res.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be uploaded without creating pages")
	cmd.Flags().BoolVar(&archive, "archive", false, "Also archive the statement to GCS/BigQuery")
	return cmd
}
