package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/docscope/internal/contract"
	mcp_internal "github.com/huangsam/docscope/internal/mcp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documented = `/**
 * @brief Computes the energy.
 * @param x the input
 * @return the energy
 */
double Compute(double x);
`

func fixtureRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"geometry/G4Box.hh":  documented,
		"tracking/G4Step.cc": "void a();\nvoid b();\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	cfg := contract.NewDefaultConfig(nil)
	cfg.Workers = 2
	s := mcp_internal.NewMCPServer(cfg, nil)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers(t *testing.T) {
	root := fixtureRoot(t)

	t.Run("analyze_tree", func(t *testing.T) {
		res := callTool(t, "analyze_tree", map[string]any{"roots": []any{root}})
		require.False(t, res.IsError, text(res))

		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(text(res)), &payload))
		assert.Contains(t, payload, "summary")
		assert.Contains(t, payload, "modules")
		assert.NotContains(t, payload, "files")
		assert.Equal(t, float64(2), payload["summary"].(map[string]any)["files"])
	})

	t.Run("get_files worst first", func(t *testing.T) {
		res := callTool(t, "get_files", map[string]any{"roots": []any{root}, "limit": 1.0})
		require.False(t, res.IsError, text(res))

		var files []map[string]any
		require.NoError(t, json.Unmarshal([]byte(text(res)), &files))
		require.Len(t, files, 1)
		assert.Equal(t, "tracking/G4Step.cc", files[0]["path"])
		assert.Equal(t, "Poor", files[0]["label"])
	})

	t.Run("get_files by tier", func(t *testing.T) {
		res := callTool(t, "get_files", map[string]any{"roots": []any{root}, "tier": "well", "order": "desc"})
		require.False(t, res.IsError, text(res))

		var files []map[string]any
		require.NoError(t, json.Unmarshal([]byte(text(res)), &files))
		require.Len(t, files, 1)
		assert.Equal(t, "geometry/G4Box.hh", files[0]["path"])
	})

	t.Run("get_modules", func(t *testing.T) {
		res := callTool(t, "get_modules", map[string]any{"roots": []any{root}})
		require.False(t, res.IsError, text(res))

		var modules []map[string]any
		require.NoError(t, json.Unmarshal([]byte(text(res)), &modules))
		require.Len(t, modules, 2)
		assert.Equal(t, float64(1), modules[0]["rank"])
	})

	t.Run("score_source", func(t *testing.T) {
		res := callTool(t, "score_source", map[string]any{"content": documented, "name": "geometry/G4Box.hh"})
		require.False(t, res.IsError, text(res))

		var metrics map[string]any
		require.NoError(t, json.Unmarshal([]byte(text(res)), &metrics))
		assert.Equal(t, float64(100), metrics["quality_score"])
		assert.Equal(t, "well", metrics["category"])
		assert.Equal(t, "geometry", metrics["module"])
		assert.Len(t, metrics["units"], 1)
	})
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		message string
	}{
		{"missing root", "analyze_tree", map[string]any{"roots": []any{"/does/not/exist"}}, "analysis failed"},
		{"invalid tier", "get_files", map[string]any{"tier": "great"}, "invalid tier"},
		{"invalid order", "get_files", map[string]any{"order": "sideways"}, "invalid order"},
		{"empty content", "score_source", map[string]any{"content": ""}, "content is required"},
		{"unbalanced braces", "score_source", map[string]any{"content": "void f() {\n}\n}\n"}, "scoring failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(res), tt.message)
		})
	}
}
