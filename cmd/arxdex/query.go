package main

import (
	"github.com/spf13/cobra"

	"github.com/arxdex/arxdex/internal/query"
)

var queryLimit int

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.PersistentFlags().IntVar(&queryLimit, "limit", query.DefaultLimit, "Maximum results for limited queries")

	queryCmd.AddCommand(recentCmd)
	queryCmd.AddCommand(authorCmd)
	queryCmd.AddCommand(getCmd)
	queryCmd.AddCommand(daterangeCmd)
	queryCmd.AddCommand(keywordCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the paper index",
	Long: `Query the paper index. Each subcommand is one access pattern and
runs as a single partition lookup; the output is a result envelope with
the operation name, echoed parameters, results, count, and the store
round-trip time in milliseconds.`,
}

// runQuery opens the store and executes one engine operation.
func runQuery(cmd *cobra.Command, op func(*query.Engine) (*query.Result, error)) error {
	cfg := loadConfig()
	st, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		exitWithError(ExitStoreError, "opening store: %v", err)
	}
	defer closeStore()

	res, err := op(&query.Engine{Store: st})
	if err != nil {
		exitWithError(ExitStoreError, "query failed: %v", err)
	}

	if humanOutput {
		printResult(res)
		return nil
	}
	return outputJSON(res)
}

func printResult(res *query.Result) {
	outputHuman("%s: %d results (%d ms)\n", res.QueryType, res.Count, res.ExecutionTimeMs)
	for _, it := range res.Results {
		outputHuman("  %s  %s  %s\n", it.Published, it.ArxivID, it.Title)
	}
}

var recentCmd = &cobra.Command{
	Use:   "recent <category>",
	Short: "Most recent papers in a category, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, func(e *query.Engine) (*query.Result, error) {
			return e.RecentInCategory(cmd.Context(), args[0], queryLimit)
		})
	},
}

var authorCmd = &cobra.Command{
	Use:   "author <name>",
	Short: "All papers by an author, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, func(e *query.Engine) (*query.Result, error) {
			return e.PapersByAuthor(cmd.Context(), args[0])
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <arxiv-id>",
	Short: "Look one paper up by id",
	Long: `Look one paper up by id. An unknown id yields an empty envelope
with count 0, not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, func(e *query.Engine) (*query.Result, error) {
			return e.GetByID(cmd.Context(), args[0])
		})
	},
}

var daterangeCmd = &cobra.Command{
	Use:   "daterange <category> <start> <end>",
	Short: "Papers in a category within [start, end], oldest first",
	Long: `Papers in a category published within the inclusive date range.
Dates are YYYY-MM-DD strings.

Example:
  arxdex query daterange cs.LG 2023-01-01 2023-06-30`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, func(e *query.Engine) (*query.Result, error) {
			return e.PapersInDateRange(cmd.Context(), args[0], args[1], args[2])
		})
	},
}

var keywordCmd = &cobra.Command{
	Use:   "keyword <keyword>",
	Short: "Papers matching an extracted keyword, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, func(e *query.Engine) (*query.Result, error) {
			return e.PapersByKeyword(cmd.Context(), args[0], queryLimit)
		})
	},
}
