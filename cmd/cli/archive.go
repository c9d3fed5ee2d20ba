package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dvloznov/statement-importer/internal/app"
	"github.com/spf13/cobra"
)

var errArchiveNotConfigured = errors.New("archive is not configured (set GCP_PROJECT and BQ_DATASET)")

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage the BigQuery import archive",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the archive tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, services, err := setup(cmd, app.Options{})
			if err != nil {
				return err
			}
			defer services.Close()
			if services.Repository == nil {
				return errArchiveNotConfigured
			}

			if err := services.Repository.EnsureTables(ctx); err != nil {
				return err
			}
			fmt.Printf("Tables ready in %s.%s\n", cfg.GCPProject, cfg.BQDataset)
			return nil
		},
	})

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List archived imports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, _, services, err := setup(cmd, app.Options{})
			if err != nil {
				return err
			}
			defer services.Close()
			if services.Repository == nil {
				return errArchiveNotConfigured
			}

			rows, err := services.Repository.ListImports(ctx, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "IMPORT\tUPLOADED\tBANK\tFILE\tROWS\tGCS")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
					r.ImportID, r.UploadTS.Format(time.RFC3339), r.Bank, r.Filename, r.TransactionCount, r.GCSURI.StringVal)
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVar(&limit, "limit", 50, "Maximum number of imports")
	cmd.AddCommand(list)

	var start, end string
	txs := &cobra.Command{
		Use:   "transactions",
		Short: "Show archived transactions dated within a range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			to, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			ctx, _, services, err := setup(cmd, app.Options{})
			if err != nil {
				return err
			}
			defer services.Close()
			if services.Repository == nil {
				return errArchiveNotConfigured
			}

			rows, err := services.Repository.QueryTransactionsByDateRange(ctx, from, to)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tDESCRIPTION\tCATEGORY\tTYPE\tAMOUNT")
			for _, r := range rows {
				date := r.RawDate
				if r.TransactionDate.Valid {
					date = r.TransactionDate.Date.String()
				}
				amount := ""
				if r.Amount != nil {
					amount = r.Amount.FloatString(2)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", date, truncate(r.Description, 40), r.Category, r.Direction, amount)
			}
			return tw.Flush()
		},
	}
	txs.Flags().StringVar(&start, "start", "", "First date (YYYY-MM-DD)")
	txs.Flags().StringVar(&end, "end", time.Now().Format("2006-01-02"), "Last date (YYYY-MM-DD)")
	_ = txs.MarkFlagRequired("start")
	cmd.AddCommand(txs)

	return cmd
}
