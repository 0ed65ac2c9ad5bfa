// ABOUTME: CLI commands for the live workout flow.
// ABOUTME: Start a session, log sets against it, finish, and review.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/workout"
	"github.com/spf13/cobra"
)

var (
	logSetNumber  int
	logSessionRef string
	sessionsLimit int
)

var startCmd = &cobra.Command{
	Use:   "start [routine]",
	Short: "Start a workout session",
	Long: `Start a workout session, optionally from a routine.

Starting from a routine prints each exercise with what you did last time,
so you know what to beat. Starting without a routine gives an ad hoc
session; log any exercise against it.

EXAMPLES:

  gym start "Push Day"
  gym start`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var routineID *uuid.UUID
		if len(args) > 0 {
			r, err := resolveRoutine(args[0])
			if err != nil {
				return err
			}
			routineID = &r.ID
		}

		session, cards, err := logger.BeginWorkout(routineID)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		color.Green("✓ Session started")
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(session.ID.String()[:8]))

		unit := cfg.GetUnit()
		for _, card := range cards {
			if card.Last == nil {
				fmt.Printf("  %s %s\n",
					padRight(card.Exercise.Name, 24),
					color.New(color.Faint).Sprint("first time"))
				continue
			}
			fmt.Printf("  %s Last: %.1f%s x %d\n",
				padRight(card.Exercise.Name, 24),
				card.Last.Weight, unit, card.Last.Reps)
		}
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log <exercise> <weight> <reps>",
	Short: "Log a set in the open session",
	Long: `Log one set against the open session.

Without --set, the next free set number for the exercise is used. Logging
an already-used set number overwrites that set, which is how you correct
a typo.

Weight 0 means a bodyweight movement.

EXAMPLES:

  gym log "Bench Press" 135 10
  gym log "Bench Press" 135 8 --set 2      # explicit set number
  gym log "Bench Press" 140 8 --set 2      # fix set 2
  gym log Pullups 0 12`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := resolveSession(logSessionRef)
		if err != nil {
			return err
		}
		exercise, err := resolveExercise(args[0])
		if err != nil {
			return err
		}

		weight, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[1])
		}
		reps, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[2])
		}

		setNumber := logSetNumber
		if setNumber == 0 {
			setNumber = nextSetNumber(session.ID, exercise.ID)
		}

		entry, err := logger.LogEntry(session.ID, exercise.ID, weight, reps, setNumber)
		if err != nil {
			return fmt.Errorf("failed to log set: %w", err)
		}

		color.Green("✓ %s set %d: %.1f%s x %d",
			exercise.Name, entry.SetNumber, entry.Weight, cfg.GetUnit(), entry.Reps)
		return nil
	},
}

// nextSetNumber finds the first unused set number for the exercise in the
// session, so plain 'gym log' appends.
func nextSetNumber(sessionID, exerciseID uuid.UUID) int {
	sets, err := repo.SetsForSession(sessionID)
	if err != nil {
		return 1
	}
	highest := 0
	for _, s := range sets {
		if s.ExerciseID == exerciseID && s.SetNumber > highest {
			highest = s.SetNumber
		}
	}
	return highest + 1
}

var finishCmd = &cobra.Command{
	Use:   "finish [session]",
	Short: "Finish the open session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) > 0 {
			ref = args[0]
		}
		session, err := resolveSession(ref)
		if err != nil {
			return err
		}

		finished, err := logger.FinishWorkout(session.ID)
		if err != nil {
			return fmt.Errorf("failed to finish session: %w", err)
		}

		color.Green("✓ Session finished (%s)",
			workout.Duration(finished, time.Now()).Round(time.Second))
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"history-log"},
	Short:   "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := repo.ListSessions(sessionsLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range sessions {
			routineName := "ad hoc"
			if s.RoutineID != nil {
				if r, err := repo.GetRoutine(*s.RoutineID); err == nil {
					routineName = r.Name
				}
			}
			status := faint.Sprint("open")
			if s.Finished() {
				status = workout.Duration(s, time.Now()).Round(time.Minute).String()
			}
			sets, err := repo.SetsForSession(s.ID)
			if err != nil {
				return fmt.Errorf("failed to load session sets: %w", err)
			}
			fmt.Printf("%s %s %s %s %s\n",
				faint.Sprint(s.ID.String()[:8]),
				faint.Sprint(s.StartedAt.Format("2006-01-02 15:04")),
				padRight(truncate(routineName, 20), 20),
				faint.Sprintf("%d sets", len(sets)),
				status)
		}
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "session-delete <session>",
	Short: "Delete a session and its sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := resolveSession(args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteSession(session.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		color.Green("✓ Deleted session %s", session.ID.String()[:8])
		return nil
	},
}

func init() {
	logCmd.Flags().IntVar(&logSetNumber, "set", 0, "set number (default: next free)")
	logCmd.Flags().StringVar(&logSessionRef, "session", "", "session ID prefix (default: open session)")
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "max number of results")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(finishCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(sessionDeleteCmd)
}
