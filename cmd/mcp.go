package cmd

import (
	"github.com/huangsam/docscope/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the docscope MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents analyze source trees via tools.

Tools: analyze_tree, get_files, get_modules, score_source.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		// Stdio carries the protocol, so nothing else may draw on the terminal
		cfg.UseProgress = false
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
