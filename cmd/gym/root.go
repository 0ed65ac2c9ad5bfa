// ABOUTME: Root Cobra command for gym CLI.
// ABOUTME: Handles repository lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/josemarichal/gym-tracker/internal/config"
	"github.com/josemarichal/gym-tracker/internal/query"
	"github.com/josemarichal/gym-tracker/internal/storage"
	"github.com/josemarichal/gym-tracker/internal/workout"
	"github.com/spf13/cobra"
)

var (
	dbPath  string
	cfg     *config.Config
	repo    storage.Repository
	queries *query.Engine
	logger  *workout.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gym",
	Short: "Strength training tracker",
	Long: `Gym is a CLI tool for tracking strength training workouts.

CONCEPTS:

  Exercises   Named movements (Bench Press, Squat, ...)
  Routines    Ordered lists of exercises (Push Day, Leg Day, ...)
  Sessions    One visit to the gym; sets get logged against it

QUICK START:

  $ gym exercise add "Bench Press"          # Create an exercise
  $ gym routine add "Push Day"              # Create a routine
  $ gym routine set "Push Day" "Bench Press"
  $ gym start "Push Day"                    # Start a session
  $ gym log "Bench Press" 135 10            # Log 135 x 10 (set 1)
  $ gym log "Bench Press" 135 8 --set 2     # Log set 2
  $ gym finish                              # Finish the session

PROGRESS:

  $ gym last "Bench Press"                  # What did I do last time?
  $ gym history "Bench Press"               # Volume per session over time
  $ gym progress "Bench Press"              # 30/90/180-day change

MCP INTEGRATION:

  Run 'gym mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "gym": { "command": "gym", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Workouts are stored in a local SQLite database, by default at
  ~/.local/share/gym-tracker/gym.db. Override with --db or the
  data_dir setting in ~/.config/gym-tracker/config.json.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if dbPath != "" {
			repo, err = storage.Open(config.ExpandPath(dbPath))
		} else {
			repo, err = cfg.OpenStorage()
		}
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}

		queries = query.NewEngine(repo)
		logger = workout.NewLogger(repo)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file path (default: config data_dir)")
}
