package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dvloznov/statement-importer/internal/aiclassify"
	"github.com/dvloznov/statement-importer/internal/app"
	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/logger"
	"github.com/dvloznov/statement-importer/internal/recurring"
	"github.com/dvloznov/statement-importer/internal/session"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var asJSON, dump, useAI bool

	cmd := &cobra.Command{
		Use:   "parse <file|gs://bucket/object>",
		Short: "Parse a statement and show the categorized transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, services, err := setup(cmd, app.Options{SkipArchive: true})
			if err != nil {
				return err
			}
			defer services.Close()
			log := logger.FromContext(ctx)

			filename, data, err := readStatement(ctx, log, args[0])
			if err != nil {
				return err
			}

			result := services.Parser.Parse(ctx, data)
			if !result.Success {
				return errors.New(result.Error)
			}

			txs := session.Enrich(result.Transactions, services.Engine, recurring.Detector{})
			var outcome aiclassify.Outcome
			if useAI {
				if !services.Classifier.Available() {
					return errors.New("--ai needs GEMINI_API_KEY")
				}
				outcome = aiclassify.Apply(ctx, services.Classifier, txs)
				if outcome.Err != nil {
					log.Warn().Err(outcome.Err).Msg("AI classification failed, keeping keyword suggestions")
				}
			}

			switch {
			case asJSON:
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					File         string               `json:"file"`
					Bank         string               `json:"bank"`
					AI           aiclassify.Outcome   `json:"ai"`
					Transactions []domain.Transaction `json:"transactions"`
				}{filename, result.DetectedBank, outcome, txs})
			case dump:
				pp.Println(result)
				pp.Println(txs)
			default:
				printTransactions(os.Stdout, result.DetectedBank, txs)
				if useAI {
					fmt.Printf("AI: %d queued, %d classified\n", outcome.Queued, outcome.Classified)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&dump, "dump", false, "Pretty-print the raw parse result")
	cmd.Flags().BoolVar(&useAI, "ai", false, "Classify low-confidence rows with Gemini")
	return cmd
}

func newSuggestCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "suggest <description>",
		Short: "Suggest a category for a transaction description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := domain.ParseTxType(txType)
			if !ok {
				return fmt.Errorf("unknown type %q (want charge or credit)", txType)
			}

			_, _, services, err := setup(cmd, app.Options{SkipArchive: true})
			if err != nil {
				return err
			}
			defer services.Close()

			s := services.Engine.Suggest(args[0], t)
			fmt.Printf("%s (%s)", s.Category, s.Confidence)
			if recurring.IsRecurring(args[0]) {
				fmt.Print(" recurring")
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", string(domain.TxCharge), "Transaction type: charge or credit")
	return cmd
}
