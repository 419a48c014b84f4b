// Package main provides the arxdex CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arxdex/arxdex/internal/config"
	"github.com/arxdex/arxdex/internal/store"
	"github.com/arxdex/arxdex/internal/store/dynamo"
	"github.com/arxdex/arxdex/internal/store/sqlite"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath is the --config override for the YAML config file.
var configPath string

func main() {
	// Environment first: .env carries AWS credentials and table
	// overrides in local setups.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "arxdex",
	Short: "Denormalized paper index loader and query tool",
	Long: `arxdex loads a paper catalog into a key-value index and answers
five fixed access patterns, each with a single partition lookup:

  - recent papers in a category
  - papers by author
  - paper by id
  - papers in a category and date range
  - papers by keyword

One canonical record per paper fans out into PAPER#, CATEGORY#,
AUTHOR#, and KEYWORD# items; three secondary indexes cover the
non-primary lookups. Backends: DynamoDB or a local SQLite file.

All commands output JSON by default for scripting and agent use.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ./arxdex.yaml)")
	rootCmd.Version = Version
}

// loadConfig resolves the runtime configuration, exiting with a config
// error when it cannot be read.
func loadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// openStore opens the configured backend. The returned close func is a
// no-op for backends without one.
func openStore(ctx context.Context, cfg config.Config) (store.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		s, err := dynamo.New(ctx, cfg.Table, dynamo.Options{
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	}
}

// exitCode classifies an error escaping a RunE into an exit code.
func exitCode(err error) int {
	if errors.Is(err, store.ErrTableNotFound) {
		return ExitStoreError
	}
	return ExitError
}
