package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aeroindex/aeroindex/core"
	"github.com/aeroindex/aeroindex/internal/api"
	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP assessment API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP assessment API",
	Long: `Serve assessments over HTTP.

Endpoints on --port:
  GET  /api/v1/questionnaire
  POST /api/v1/assessments
  POST /api/v1/assessments/export?format=xlsx|csv|json|parquet
  POST /api/v1/tables/reload

Endpoints on --metrics-port:
  GET /health
  GET /metrics

The server stops gracefully on SIGINT or SIGTERM.

Examples:
  aeroindex serve --port 8700 --metrics-port 8701 --log-format text`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := api.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		if err := api.Serve(ctx, cfg, core.NewTableCache(cfg), logger); err != nil {
			contract.LogFatal("Server stopped", err)
		}
	},
}
