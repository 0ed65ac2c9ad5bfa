// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/josemarichal/gym-tracker/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to interact with your workout data
through a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "gym": {
        "command": "gym",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  create_exercise        Create a named exercise
  list_exercises         List exercises
  create_routine         Create a workout routine
  set_routine_exercises  Replace a routine's ordered exercise list
  begin_workout          Start a session with last-time stats
  log_set                Record one set in a session
  finish_session         Finish an in-progress session
  last_stats             Most recent prior performance for an exercise
  history_series         History points for weight, reps, or volume
  progress_summary       30/90/180-day change deltas

AVAILABLE RESOURCES:

  gym://routines          All routines with their exercises
  gym://sessions/recent   Last 10 sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
