package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arxdex/arxdex/internal/api"
	"github.com/arxdex/arxdex/internal/query"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [port]",
	Short: "Serve the query API over HTTP",
	Long: `Serve the read-only query API over HTTP (default port 8080).

Routes:
  GET /papers/recent?category=<cat>&limit=<n>
  GET /papers/author/{name}
  GET /papers/{id}
  GET /papers/search?category=<cat>&start=<date>&end=<date>
  GET /papers/keyword/{kw}?limit=<n>`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	port := 8080
	if len(args) == 1 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p <= 0 {
			return fmt.Errorf("invalid port %q", args[0])
		}
		port = p
	}

	cfg := loadConfig()
	st, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		exitWithError(ExitStoreError, "opening store: %v", err)
	}
	defer closeStore()

	server := api.New(&query.Engine{Store: st})
	addr := fmt.Sprintf(":%d", port)
	outputHuman("Listening on %s\n", addr)
	return http.ListenAndServe(addr, server)
}
