// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the docscope MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"docscope Documentation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_tree ---
	s.AddTool(mcp.NewTool("analyze_tree",
		mcp.WithDescription("Analyze C++ source trees for documentation coverage and code quality. Returns the project summary without the per-file list."),
		mcp.WithArray("roots", mcp.Description("Source roots to analyze (defaults to the current directory)."), mcp.WithStringItems()),
		mcp.WithNumber("limit", mcp.Description("Examples per tier and priorities returned.")),
	), h.handleAnalyzeTree)

	// --- 2. Tool: get_files ---
	s.AddTool(mcp.NewTool("get_files",
		mcp.WithDescription("Rank analyzed files by documentation score."),
		mcp.WithArray("roots", mcp.Description("Source roots to analyze."), mcp.WithStringItems()),
		mcp.WithString("tier", mcp.Description("Only return files in this documentation tier."), mcp.Enum("well", "partial", "poor")),
		mcp.WithString("order", mcp.Description("Score order. Defaults to 'asc' (worst first)."), mcp.Enum("asc", "desc")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetFiles)

	// --- 3. Tool: get_modules ---
	s.AddTool(mcp.NewTool("get_modules",
		mcp.WithDescription("List modules in documentation priority order (usage x complexity)."),
		mcp.WithArray("roots", mcp.Description("Source roots to analyze."), mcp.WithStringItems()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of modules returned.")),
	), h.handleGetModules)

	// --- 4. Tool: score_source ---
	s.AddTool(mcp.NewTool("score_source",
		mcp.WithDescription("Score one in-memory C++ source file, including per-unit scores."),
		mcp.WithString("content", mcp.Description("The file content."), mcp.Required()),
		mcp.WithString("name", mcp.Description("File name used for display and module lookup (defaults to 'source.cc').")),
	), h.handleScoreSource)

	return s
}

// StartMCPServer starts the docscope MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
