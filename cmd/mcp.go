package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/daybrief/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for Claude Code integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This allows Claude Code to query daybrief natively for briefings,
ranked actions, and topic priorities, and to record feedback. Configure
in Claude Code with:

  {
    "mcpServers": {
      "daybrief": { "command": "daybrief", "args": ["mcp"] }
    }
  }

Available tools: daybrief_generate, daybrief_latest, daybrief_history,
daybrief_actions, daybrief_record_feedback, daybrief_set_priority,
daybrief_priorities`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}

		srv := mcp.NewServer(s, getFeedback(), newBuilder())
		return srv.ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
