// Package config loads settings from an optional YAML file, a .env file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds every setting of the importer.
type Config struct {
	Port      string `mapstructure:"port"`
	APIToken  string `mapstructure:"api_token"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	TemplatesPath string `mapstructure:"templates_path"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	NotionToken      string `mapstructure:"notion_token"`
	NotionDatabaseID string `mapstructure:"notion_database_id"`
	NotionAccountID  string `mapstructure:"notion_account_id"`

	GCPProject string `mapstructure:"gcp_project"`
	GCSBucket  string `mapstructure:"gcs_bucket"`
	BQDataset  string `mapstructure:"bq_dataset"`
}

var defaults = map[string]string{
	"port":               "8080",
	"api_token":          "",
	"log_level":          "info",
	"log_format":         "console",
	"templates_path":     "templates.yaml",
	"gemini_api_key":     "",
	"gemini_model":       "gemini-2.5-flash",
	"notion_token":       "",
	"notion_database_id": "",
	"notion_account_id":  "",
	"gcp_project":        "",
	"gcs_bucket":         "",
	"bq_dataset":         "statement_importer",
}

// EnvFile is loaded into the process environment by Build when present.
// Variables already set are not overridden.
var EnvFile = ".env"

// Build resolves the configuration. cfgFile may be empty, in which case
// config.yaml is looked up in the working directory and ignored when absent.
// Flags are bound by name with dashes in place of underscores
// (templates-path for templates_path); flags may be nil.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("Build: loading %s: %w", EnvFile, err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key := range defaults {
			if f := flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("Build: binding flag %s: %w", f.Name, err)
				}
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("Build: reading %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("Build: reading config.yaml: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("Build: decoding config: %w", err)
	}
	return &cfg, nil
}

// NotionConfigured reports whether exports to Notion can run.
func (c *Config) NotionConfigured() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}

// ArchiveConfigured reports whether the BigQuery import archive is enabled.
func (c *Config) ArchiveConfigured() bool {
	return c.GCPProject != "" && c.BQDataset != ""
}
