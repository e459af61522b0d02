package cmd

import (
	"github.com/aeroindex/aeroindex/core"
	"github.com/aeroindex/aeroindex/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the aerodrome assessment MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents list the questionnaire, assess aerodromes and classify scores.`,
	// Nothing may print to stdout here; stdio carries the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, core.NewTableCache(cfg), version)
	},
}
