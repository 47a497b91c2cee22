package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/docscope/core"
	"github.com/huangsam/docscope/core/algo"
	"github.com/huangsam/docscope/core/loader"
	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultSourceName is used by score_source when no name is given.
const defaultSourceName = "source.cc"

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// treeSummary is the analyze_tree payload: everything except the per-file list.
type treeSummary struct {
	Roots []string `json:"roots"`
	schema.ProjectSummary
	Diagnostics schema.Diagnostics `json:"diagnostics"`
}

// configFor clones the base config and applies the common roots and limit arguments.
func (h *toolHandler) configFor(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if roots := request.GetStringSlice("roots", nil); len(roots) > 0 {
		cfg.Roots = roots
	}
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"."}
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	return cfg
}

func (h *toolHandler) analyze(ctx context.Context, cfg *contract.Config) (*schema.AnalysisResult, error) {
	return core.Analyze(core.WithSuppressHeader(ctx), cfg, h.mgr, nil)
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAnalyzeTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)

	result, err := h.analyze(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	return jsonResult(treeSummary{
		Roots:          result.Roots,
		ProjectSummary: result.ProjectSummary,
		Diagnostics:    result.Diagnostics,
	})
}

func (h *toolHandler) handleGetFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	if tier := request.GetString("tier", ""); tier != "" {
		if _, ok := schema.ValidDocTiers[schema.DocTier(tier)]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid tier %q (expected well, partial or poor)", tier)), nil
		}
		cfg.Tier = schema.DocTier(tier)
	}
	switch order := strings.ToLower(request.GetString("order", "asc")); order {
	case "asc":
		cfg.Ascending = true
	case "desc":
		cfg.Ascending = false
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid order %q (expected asc or desc)", order)), nil
	}

	result, err := h.analyze(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	ranked := algo.RankFiles(algo.FilterTier(result.Files, cfg.Tier), cfg.Ascending, cfg.ResultLimit)
	return jsonResult(schema.EnrichFiles(ranked))
}

func (h *toolHandler) handleGetModules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)

	result, err := h.analyze(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	summary := result.ProjectSummary
	summary.Priorities = algo.RankModules(summary.Priorities, cfg.ResultLimit)
	return jsonResult(schema.EnrichModules(summary))
}

func (h *toolHandler) handleScoreSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := request.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("content is required"), nil
	}
	name := request.GetString("name", defaultSourceName)

	opts := h.baseCfg.Analysis
	opts.Detail = true
	ref := schema.SourceRef{
		Path:    name,
		RelPath: name,
		Module:  loader.ModuleOf(name, h.baseCfg.Load.SourceDir),
	}

	metrics, err := core.AnalyzeSource(ctx, opts, loader.FromContent(ref, content))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	return jsonResult(metrics)
}
