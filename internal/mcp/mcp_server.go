// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// serviceLevelNames lists the accepted aerodrome_type values.
var serviceLevelNames = []string{"Unattended", "UNICOM/AWIB", "AFIS", "ATC"}

// NewMCPServer initializes and configures the aerodrome assessment MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, provider contract.TableProvider, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Aerodrome Risk Index Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		provider: provider,
	}

	// --- 1. Tool: list_questionnaire ---
	s.AddTool(mcp.NewTool("list_questionnaire",
		mcp.WithDescription("List every questionnaire category with its options and label scores, in display order."),
	), h.handleListQuestionnaire)

	// --- 2. Tool: assess_aerodrome ---
	s.AddTool(mcp.NewTool("assess_aerodrome",
		mcp.WithDescription("Score an aerodrome: base risk score, risk level and the weighted index of every service level."),
		mcp.WithObject("answers", mcp.Description("Selected option label for every category, keyed by category name."), mcp.Required()),
		mcp.WithString("identifier", mcp.Description("Free-text aerodrome identifier, e.g. an ICAO code.")),
		mcp.WithNumber("ifr_movements", mcp.Description("Annual IFR movements (non-negative).")),
		mcp.WithNumber("vfr_movements", mcp.Description("Annual VFR movements (non-negative).")),
		mcp.WithString("aerodrome_type", mcp.Description("Service level to report as selected. Defaults to 'Unattended'."), mcp.Enum(serviceLevelNames...)),
	), h.handleAssessAerodrome)

	// --- 3. Tool: classify_risk ---
	s.AddTool(mcp.NewTool("classify_risk",
		mcp.WithDescription("Classify a base risk score as Low, Moderate, High or Very High."),
		mcp.WithNumber("score", mcp.Description("Integer base risk score."), mcp.Required()),
	), h.handleClassifyRisk)

	return s
}

// StartMCPServer starts the aerodrome assessment MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, provider contract.TableProvider, version string) error {
	s := NewMCPServer(baseCfg, provider, version)
	return server.ServeStdio(s)
}
