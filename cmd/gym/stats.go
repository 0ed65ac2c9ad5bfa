// ABOUTME: CLI commands for performance queries.
// ABOUTME: Last-time stats, history series, and progress deltas.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/josemarichal/gym-tracker/internal/query"
	"github.com/spf13/cobra"
)

var historyMetric string

var lastCmd = &cobra.Command{
	Use:   "last <exercise>",
	Short: "Show the most recent prior performance",
	Long: `Show what you did the last time you performed an exercise.

EXAMPLES:

  gym last "Bench Press"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exercise, err := resolveExercise(args[0])
		if err != nil {
			return err
		}

		stats, err := queries.LastStatsFor(exercise.ID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to query stats: %w", err)
		}
		if stats == nil {
			fmt.Printf("No history for %s yet.\n", exercise.Name)
			return nil
		}

		fmt.Printf("%s Last: %.1f%s x %d %s\n",
			padRight(exercise.Name, 24),
			stats.Weight, cfg.GetUnit(), stats.Reps,
			color.New(color.Faint).Sprintf("(%s)", stats.LoggedAt.Format("2006-01-02")))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <exercise>",
	Short: "Show an exercise's history over time",
	Long: `Show an exercise's history as one value per point in time.

METRICS:

  volume   weight x reps summed per session (default)
  weight   weight of each logged set
  reps     reps of each logged set

EXAMPLES:

  gym history "Bench Press"
  gym history "Bench Press" --metric weight`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exercise, err := resolveExercise(args[0])
		if err != nil {
			return err
		}
		metric, err := query.ParseMetric(historyMetric)
		if err != nil {
			return err
		}

		points, err := queries.HistorySeries(exercise.ID, metric)
		if err != nil {
			return fmt.Errorf("failed to build series: %w", err)
		}
		if len(points) == 0 {
			fmt.Printf("No history for %s yet.\n", exercise.Name)
			return nil
		}

		faint := color.New(color.Faint)
		fmt.Println(color.New(color.Bold).Sprintf("%s (%s)", exercise.Name, metric))
		for _, p := range points {
			fmt.Printf("  %s %.1f\n", faint.Sprint(p.At.Format("2006-01-02 15:04")), p.Value)
		}
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <exercise>",
	Short: "Show 30/90/180-day progress deltas",
	Long: `Show how an exercise changed over the last month, quarter, and half
year: the difference between the newest and oldest value in each window.

A dash means the window held fewer than two data points.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exercise, err := resolveExercise(args[0])
		if err != nil {
			return err
		}

		progress, err := queries.ProgressSummary(exercise.ID)
		if err != nil {
			return fmt.Errorf("failed to summarize progress: %w", err)
		}

		fmt.Println(color.New(color.Bold).Sprint(exercise.Name))
		fmt.Printf("  %s %s %s %s\n",
			padRight("window", 8), padRight("weight", 10), padRight("reps", 10), "volume")
		for _, w := range progress.Windows {
			fmt.Printf("  %s %s %s %s\n",
				padRight(fmt.Sprintf("%dd", w.Days), 8),
				padRight(formatDelta(w.Weight), 10),
				padRight(formatDelta(w.Reps), 10),
				formatDelta(w.Volume))
		}
		return nil
	},
}

// formatDelta renders a signed delta, or a dash for missing data.
func formatDelta(v *float64) string {
	if v == nil {
		return "-"
	}
	if *v > 0 {
		return color.GreenString("+%.1f", *v)
	}
	if *v < 0 {
		return color.RedString("%.1f", *v)
	}
	return "0.0"
}

func init() {
	historyCmd.Flags().StringVarP(&historyMetric, "metric", "m", "volume", "metric: weight, reps, or volume")

	rootCmd.AddCommand(lastCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(progressCmd)
}
