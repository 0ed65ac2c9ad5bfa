// ABOUTME: CLI commands for managing exercises.
// ABOUTME: Add, list, archive, and delete named movements.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/josemarichal/gym-tracker/internal/models"
	"github.com/spf13/cobra"
)

var exerciseListArchived bool

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage exercises",
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an exercise",
	Long: `Create a named exercise.

Names are unique, ignoring case: "Bench Press" and "bench press" are the
same exercise.

EXAMPLES:

  gym exercise add "Bench Press"
  gym exercise add Squat`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := repo.CreateExercise(args[0])
		if err != nil {
			return fmt.Errorf("failed to create exercise: %w", err)
		}

		color.Green("✓ Added %s", e.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(e.ID.String()[:8]))
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := repo.ListExercises(exerciseListArchived)
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		if len(exercises) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range exercises {
			suffix := ""
			if e.Archived {
				suffix = faint.Sprint(" (archived)")
			}
			fmt.Printf("%s %s%s\n",
				faint.Sprint(e.ID.String()[:8]),
				e.Name,
				suffix)
		}
		return nil
	},
}

var exerciseArchiveCmd = &cobra.Command{
	Use:   "archive <exercise>",
	Short: "Archive an exercise",
	Long: `Archive an exercise so it stops appearing in listings and routine
pickers. Its workout history is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(args[0])
		if err != nil {
			return err
		}
		if err := repo.ArchiveExercise(e.ID); err != nil {
			return fmt.Errorf("failed to archive exercise: %w", err)
		}

		color.Green("✓ Archived %s", e.Name)
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:   "delete <exercise>",
	Short: "Delete an exercise",
	Long: `Delete an exercise that has no logged history.

An exercise with logged sets cannot be deleted, because that would orphan
your workout history; archive it instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteExercise(e.ID); err != nil {
			if errors.Is(err, models.ErrInUse) {
				return fmt.Errorf("%s has logged history; use 'gym exercise archive' instead", e.Name)
			}
			return fmt.Errorf("failed to delete exercise: %w", err)
		}

		color.Green("✓ Deleted %s", e.Name)
		return nil
	},
}

func init() {
	exerciseListCmd.Flags().BoolVarP(&exerciseListArchived, "archived", "a", false, "include archived exercises")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseArchiveCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
