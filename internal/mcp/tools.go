// ABOUTME: MCP tool implementations for the gym tracker.
// ABOUTME: Exposes exercises, routines, workout logging, and progress queries.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
	"github.com/josemarichal/gym-tracker/internal/query"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// create_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_exercise",
		Description: "Create a named exercise (e.g. Bench Press)",
	}, s.handleCreateExercise)

	// list_exercises
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List exercises, optionally including archived ones",
	}, s.handleListExercises)

	// create_routine
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_routine",
		Description: "Create a named workout routine (e.g. Push Day)",
	}, s.handleCreateRoutine)

	// set_routine_exercises
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_routine_exercises",
		Description: "Replace a routine's ordered exercise list",
	}, s.handleSetRoutineExercises)

	// begin_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "begin_workout",
		Description: "Start a workout session, with last-time stats per exercise",
	}, s.handleBeginWorkout)

	// log_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Record one set (weight, reps) in a session; re-logging a set number overwrites it",
	}, s.handleLogSet)

	// finish_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_session",
		Description: "Finish an in-progress workout session",
	}, s.handleFinishSession)

	// last_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "last_stats",
		Description: "Get the most recent prior performance for an exercise",
	}, s.handleLastStats)

	// history_series
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "history_series",
		Description: "Get an exercise's history as (time, value) points for weight, reps, or volume",
	}, s.handleHistorySeries)

	// progress_summary
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "progress_summary",
		Description: "Get change-over-time deltas for an exercise over 30, 90, and 180 days",
	}, s.handleProgressSummary)
}

// Tool input/output types

type createExerciseInput struct {
	Name string `json:"name" jsonschema:"Exercise name"`
}

type exerciseOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type listExercisesInput struct {
	IncludeArchived bool `json:"include_archived,omitempty" jsonschema:"Include archived exercises"`
}

type createRoutineInput struct {
	Name string `json:"name" jsonschema:"Routine name"`
}

type routineOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type setRoutineExercisesInput struct {
	Routine   string   `json:"routine" jsonschema:"Routine name or ID"`
	Exercises []string `json:"exercises" jsonschema:"Ordered exercise names or IDs"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type beginWorkoutInput struct {
	Routine string `json:"routine,omitempty" jsonschema:"Routine name or ID; omit for an ad hoc session"`
}

type exerciseCardOutput struct {
	ExerciseID string  `json:"exercise_id"`
	Name       string  `json:"name"`
	LastWeight float64 `json:"last_weight,omitempty"`
	LastReps   int     `json:"last_reps,omitempty"`
	FirstTime  bool    `json:"first_time"`
}

type beginWorkoutOutput struct {
	SessionID string               `json:"session_id"`
	StartedAt string               `json:"started_at"`
	Exercises []exerciseCardOutput `json:"exercises,omitempty"`
	Message   string               `json:"message"`
}

type logSetInput struct {
	SessionID string  `json:"session_id" jsonschema:"Session ID"`
	Exercise  string  `json:"exercise" jsonschema:"Exercise name or ID"`
	Weight    float64 `json:"weight" jsonschema:"Weight lifted (0 for bodyweight)"`
	Reps      int     `json:"reps" jsonschema:"Repetitions completed"`
	SetNumber int     `json:"set_number" jsonschema:"Set number within the session (1-based)"`
}

type finishSessionInput struct {
	SessionID string `json:"session_id" jsonschema:"Session ID"`
}

type lastStatsInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name or ID"`
}

type historySeriesInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name or ID"`
	Metric   string `json:"metric,omitempty" jsonschema:"Metric: weight, reps, or volume (default volume)"`
}

type progressSummaryInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name or ID"`
}

// resolveExercise accepts an exercise UUID or name.
func (s *Server) resolveExercise(ref string) (*models.Exercise, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.repo.GetExercise(id)
	}
	return s.repo.GetExerciseByName(ref)
}

// resolveRoutine accepts a routine UUID or name.
func (s *Server) resolveRoutine(ref string) (*models.Routine, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.repo.GetRoutine(id)
	}
	return s.repo.GetRoutineByName(ref)
}

// Tool handlers

func (s *Server) handleCreateExercise(ctx context.Context, req *mcp.CallToolRequest, input createExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	e, err := s.repo.CreateExercise(input.Name)
	if err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to create exercise: %w", err)
	}

	return nil, exerciseOutput{
		ID:      e.ID.String(),
		Name:    e.Name,
		Message: fmt.Sprintf("Created exercise %q (ID: %s)", e.Name, e.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, any, error) {
	exercises, err := s.repo.ListExercises(input.IncludeArchived)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	if len(exercises) == 0 {
		return nil, map[string]interface{}{"message": "No exercises found."}, nil
	}
	return nil, exercises, nil
}

func (s *Server) handleCreateRoutine(ctx context.Context, req *mcp.CallToolRequest, input createRoutineInput) (*mcp.CallToolResult, routineOutput, error) {
	r, err := s.repo.CreateRoutine(input.Name)
	if err != nil {
		return nil, routineOutput{}, fmt.Errorf("failed to create routine: %w", err)
	}

	return nil, routineOutput{
		ID:      r.ID.String(),
		Name:    r.Name,
		Message: fmt.Sprintf("Created routine %q (ID: %s)", r.Name, r.ID.String()[:8]),
	}, nil
}

func (s *Server) handleSetRoutineExercises(ctx context.Context, req *mcp.CallToolRequest, input setRoutineExercisesInput) (*mcp.CallToolResult, simpleOutput, error) {
	routine, err := s.resolveRoutine(input.Routine)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("routine not found: %s", input.Routine)
	}

	exerciseIDs := make([]uuid.UUID, 0, len(input.Exercises))
	for _, ref := range input.Exercises {
		e, err := s.resolveExercise(ref)
		if err != nil {
			return nil, simpleOutput{}, fmt.Errorf("exercise not found: %s", ref)
		}
		exerciseIDs = append(exerciseIDs, e.ID)
	}

	if err := s.repo.SetRoutineExercises(routine.ID, exerciseIDs); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to set routine exercises: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Routine %q now has %d exercises", routine.Name, len(exerciseIDs)),
	}, nil
}

func (s *Server) handleBeginWorkout(ctx context.Context, req *mcp.CallToolRequest, input beginWorkoutInput) (*mcp.CallToolResult, beginWorkoutOutput, error) {
	var routineID *uuid.UUID
	if input.Routine != "" {
		routine, err := s.resolveRoutine(input.Routine)
		if err != nil {
			return nil, beginWorkoutOutput{}, fmt.Errorf("routine not found: %s", input.Routine)
		}
		routineID = &routine.ID
	}

	session, cards, err := s.logger.BeginWorkout(routineID)
	if err != nil {
		return nil, beginWorkoutOutput{}, fmt.Errorf("failed to start session: %w", err)
	}

	out := beginWorkoutOutput{
		SessionID: session.ID.String(),
		StartedAt: session.StartedAt.Format(time.RFC3339),
		Message:   fmt.Sprintf("Session started (ID: %s)", session.ID.String()[:8]),
	}
	for _, card := range cards {
		co := exerciseCardOutput{
			ExerciseID: card.Exercise.ID.String(),
			Name:       card.Exercise.Name,
			FirstTime:  card.Last == nil,
		}
		if card.Last != nil {
			co.LastWeight = card.Last.Weight
			co.LastReps = card.Last.Reps
		}
		out.Exercises = append(out.Exercises, co)
	}
	return nil, out, nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, simpleOutput, error) {
	sessionID, err := uuid.Parse(input.SessionID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("invalid session ID: %s", input.SessionID)
	}
	exercise, err := s.resolveExercise(input.Exercise)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("exercise not found: %s", input.Exercise)
	}

	entry, err := s.logger.LogEntry(sessionID, exercise.ID, input.Weight, input.Reps, input.SetNumber)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to log set: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Logged %s set %d: %.1f x %d", exercise.Name, entry.SetNumber, entry.Weight, entry.Reps),
	}, nil
}

func (s *Server) handleFinishSession(ctx context.Context, req *mcp.CallToolRequest, input finishSessionInput) (*mcp.CallToolResult, simpleOutput, error) {
	sessionID, err := uuid.Parse(input.SessionID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("invalid session ID: %s", input.SessionID)
	}

	session, err := s.logger.FinishWorkout(sessionID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to finish session: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Session finished after %s", session.FinishedAt.Sub(session.StartedAt).Round(time.Second)),
	}, nil
}

func (s *Server) handleLastStats(ctx context.Context, req *mcp.CallToolRequest, input lastStatsInput) (*mcp.CallToolResult, any, error) {
	exercise, err := s.resolveExercise(input.Exercise)
	if err != nil {
		return nil, nil, fmt.Errorf("exercise not found: %s", input.Exercise)
	}

	stats, err := s.queries.LastStatsFor(exercise.ID, time.Now())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query stats: %w", err)
	}
	if stats == nil {
		return nil, map[string]interface{}{
			"message": fmt.Sprintf("No history for %s yet.", exercise.Name),
		}, nil
	}

	return nil, map[string]interface{}{
		"exercise":   exercise.Name,
		"weight":     stats.Weight,
		"reps":       stats.Reps,
		"set_number": stats.SetNumber,
		"logged_at":  stats.LoggedAt.Format(time.RFC3339),
	}, nil
}

func (s *Server) handleHistorySeries(ctx context.Context, req *mcp.CallToolRequest, input historySeriesInput) (*mcp.CallToolResult, any, error) {
	exercise, err := s.resolveExercise(input.Exercise)
	if err != nil {
		return nil, nil, fmt.Errorf("exercise not found: %s", input.Exercise)
	}

	metricName := input.Metric
	if metricName == "" {
		metricName = string(query.MetricVolume)
	}
	metric, err := query.ParseMetric(metricName)
	if err != nil {
		return nil, nil, err
	}

	points, err := s.queries.HistorySeries(exercise.ID, metric)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build series: %w", err)
	}
	if len(points) == 0 {
		return nil, map[string]interface{}{
			"message": fmt.Sprintf("No history for %s yet.", exercise.Name),
		}, nil
	}

	out := make([]map[string]interface{}, 0, len(points))
	for _, p := range points {
		out = append(out, map[string]interface{}{
			"at":    p.At.Format(time.RFC3339),
			"value": p.Value,
		})
	}
	return nil, map[string]interface{}{
		"exercise": exercise.Name,
		"metric":   string(metric),
		"points":   out,
	}, nil
}

func (s *Server) handleProgressSummary(ctx context.Context, req *mcp.CallToolRequest, input progressSummaryInput) (*mcp.CallToolResult, any, error) {
	exercise, err := s.resolveExercise(input.Exercise)
	if err != nil {
		return nil, nil, fmt.Errorf("exercise not found: %s", input.Exercise)
	}

	progress, err := s.queries.ProgressSummary(exercise.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to summarize progress: %w", err)
	}

	windows := make([]map[string]interface{}, 0, len(progress.Windows))
	for _, w := range progress.Windows {
		entry := map[string]interface{}{"days": w.Days}
		if w.Weight != nil {
			entry["weight_delta"] = *w.Weight
		}
		if w.Reps != nil {
			entry["reps_delta"] = *w.Reps
		}
		if w.Volume != nil {
			entry["volume_delta"] = *w.Volume
		}
		windows = append(windows, entry)
	}
	return nil, map[string]interface{}{
		"exercise": exercise.Name,
		"windows":  windows,
	}, nil
}
