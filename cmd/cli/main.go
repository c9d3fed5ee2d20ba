package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dvloznov/statement-importer/internal/app"
	"github.com/dvloznov/statement-importer/internal/config"
	"github.com/dvloznov/statement-importer/internal/infra/gcs"
	"github.com/dvloznov/statement-importer/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "importer",
	Short:         "Parse, categorize and export Chilean bank statements",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is ./config.yaml when present)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level")
	rootCmd.PersistentFlags().String("templates-path", "templates.yaml", "Category templates file")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newSuggestCmd())
	rootCmd.AddCommand(newTemplatesCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newArchiveCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the services a command needs.
func setup(cmd *cobra.Command, opts app.Options) (context.Context, *config.Config, *app.Services, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: os.Stderr})
	ctx := logger.WithContext(cmd.Context(), log)

	services, err := app.New(ctx, cfg, log, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	return ctx, cfg, services, nil
}

// readStatement reads a local file or a gs:// object.
func readStatement(ctx context.Context, log zerolog.Logger, source string) (filename string, data []byte, err error) {
	if !strings.HasPrefix(source, "gs://") {
		data, err = os.ReadFile(source)
		if err != nil {
			return "", nil, err
		}
		return source, data, nil
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return "", nil, err
	}
	defer client.Close()

	log.Info().Str("gcs_uri", source).Msg("Downloading statement")
	data, err = client.Fetch(ctx, source)
	if err != nil {
		return "", nil, err
	}
	return gcs.FilenameFromURI(source), data, nil
}
