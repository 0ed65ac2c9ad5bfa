// ABOUTME: CLI commands for managing routines.
// ABOUTME: Add, list, show, compose, and delete exercise routines.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var routineCmd = &cobra.Command{
	Use:     "routine",
	Aliases: []string{"r"},
	Short:   "Manage workout routines",
}

var routineAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a routine",
	Long: `Create a named routine.

Names are unique, ignoring case. A new routine starts empty; use
'gym routine set' to give it exercises.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repo.CreateRoutine(args[0])
		if err != nil {
			return fmt.Errorf("failed to create routine: %w", err)
		}

		color.Green("✓ Added %s", r.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(r.ID.String()[:8]))
		return nil
	},
}

var routineListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List routines",
	RunE: func(cmd *cobra.Command, args []string) error {
		routines, err := repo.ListRoutines()
		if err != nil {
			return fmt.Errorf("failed to list routines: %w", err)
		}

		if len(routines) == 0 {
			fmt.Println("No routines found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range routines {
			exercises, err := repo.RoutineExercises(r.ID)
			if err != nil {
				return fmt.Errorf("failed to load routine exercises: %w", err)
			}
			fmt.Printf("%s %s %s\n",
				faint.Sprint(r.ID.String()[:8]),
				padRight(r.Name, 20),
				faint.Sprintf("(%d exercises)", len(exercises)))
		}
		return nil
	},
}

var routineShowCmd = &cobra.Command{
	Use:   "show <routine>",
	Short: "Show a routine's exercises in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(args[0])
		if err != nil {
			return err
		}
		exercises, err := repo.RoutineExercises(r.ID)
		if err != nil {
			return fmt.Errorf("failed to load routine exercises: %w", err)
		}

		fmt.Println(color.New(color.Bold).Sprint(r.Name))
		if len(exercises) == 0 {
			fmt.Println("  (empty)")
			return nil
		}
		for i, e := range exercises {
			fmt.Printf("  %d. %s\n", i+1, e.Name)
		}
		return nil
	},
}

var routineSetCmd = &cobra.Command{
	Use:   "set <routine> <exercise>...",
	Short: "Replace a routine's ordered exercise list",
	Long: `Replace a routine's exercise list with the given exercises, in the
given order. Exercises can be referenced by name or ID prefix.

EXAMPLES:

  gym routine set "Push Day" "Bench Press" "Overhead Press" Dips
  gym routine set "Push Day"              # empty the routine`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(args[0])
		if err != nil {
			return err
		}

		exerciseIDs := make([]uuid.UUID, 0, len(args)-1)
		for _, ref := range args[1:] {
			e, err := resolveExercise(ref)
			if err != nil {
				return err
			}
			exerciseIDs = append(exerciseIDs, e.ID)
		}

		if err := repo.SetRoutineExercises(r.ID, exerciseIDs); err != nil {
			return fmt.Errorf("failed to set routine exercises: %w", err)
		}

		color.Green("✓ %s now has %d exercises", r.Name, len(exerciseIDs))
		return nil
	},
}

var routineDeleteCmd = &cobra.Command{
	Use:   "delete <routine>",
	Short: "Delete a routine",
	Long: `Delete a routine. Its exercises and any logged session history are
kept; past sessions just lose their routine reference.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteRoutine(r.ID); err != nil {
			return fmt.Errorf("failed to delete routine: %w", err)
		}

		color.Green("✓ Deleted %s", r.Name)
		return nil
	},
}

func init() {
	routineCmd.AddCommand(routineAddCmd)
	routineCmd.AddCommand(routineListCmd)
	routineCmd.AddCommand(routineShowCmd)
	routineCmd.AddCommand(routineSetCmd)
	routineCmd.AddCommand(routineDeleteCmd)
	rootCmd.AddCommand(routineCmd)
}
