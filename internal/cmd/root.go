// Package cmd implements the word-fetcher command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Wangkaiwei233/word-fetcher/internal/config"
	"github.com/Wangkaiwei233/word-fetcher/internal/observability"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "word-fetcher",
	Short: "Extract and browse nouns from uploaded documents",
	Long: `word-fetcher ingests PDF and office documents, extracts their text,
and builds a searchable per-document noun index with occurrence locations.

Run 'word-fetcher serve' for the HTTP API, or 'word-fetcher extract' to
process a single file from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file")
	rootCmd.Version = Version
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := observability.Init(cfg.Logging.Level, cfg.Logging.Profile); err != nil {
		return nil, err
	}
	return cfg, nil
}
