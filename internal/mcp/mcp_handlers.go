package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/aeroindex/aeroindex/core"
	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/aeroindex/aeroindex/internal/outwriter"
	"github.com/aeroindex/aeroindex/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	provider contract.TableProvider
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleListQuestionnaire(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.provider.Get(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading score tables failed: %v", err)), nil
	}
	return jsonResult(store.Categories()), nil
}

func (h *toolHandler) handleAssessAerodrome(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := request.GetArguments()["answers"].(map[string]any)
	if !ok || len(raw) == 0 {
		return mcp.NewToolResultError("answers must be an object mapping each category to its selected option"), nil
	}
	selection := make(schema.Selection, len(raw))
	for category, v := range raw {
		label, ok := v.(string)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("answer for %q must be a string", category)), nil
		}
		selection[schema.CleanCategory(category)] = label
	}

	in := schema.AssessmentInput{
		Identifier: request.GetString("identifier", ""),
		Selection:  selection,
		Movements: schema.Movements{
			IFR: request.GetFloat("ifr_movements", 0),
			VFR: request.GetFloat("vfr_movements", 0),
		},
	}
	if err := contract.ValidateMovements(in.Movements); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid movements: %v", err)), nil
	}
	highlight, err := contract.ParseHighlight(request.GetString("aerodrome_type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in.Highlight = highlight

	result, err := core.RunAssessment(ctx, core.NewEngine(h.baseCfg), h.provider, in)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("assessment failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleClassifyRisk(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	score, err := request.RequireFloat("score")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if score != math.Trunc(score) || math.Abs(score) > math.MaxInt32 {
		return mcp.NewToolResultError(fmt.Sprintf("score must be an integer (received %v)", score)), nil
	}
	n := int(score)
	return jsonResult(outwriter.Classification{Score: n, RiskLevel: core.ClassifyRisk(n)}), nil
}
