// ABOUTME: Workout session logger orchestrating the live logging flow.
// ABOUTME: Starts sessions, prefills last-time stats, records sets.
package workout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
	"github.com/josemarichal/gym-tracker/internal/query"
	"github.com/josemarichal/gym-tracker/internal/storage"
)

// ExerciseCard pairs an exercise with the performance from the last time it
// was done, ready for a "Last: 135lbs x 10" prompt. Last is nil the first
// time an exercise is performed.
type ExerciseCard struct {
	Exercise *models.Exercise
	Last     *query.Stats
}

// Logger drives a workout from start to finish on top of the repository
// and the query engine.
type Logger struct {
	repo    storage.Repository
	queries *query.Engine
}

// NewLogger creates a session logger.
func NewLogger(repo storage.Repository) *Logger {
	return &Logger{repo: repo, queries: query.NewEngine(repo)}
}

// BeginWorkout starts a session and builds one card per routine exercise,
// each carrying the stats from strictly before the session started. Passing
// nil starts an ad hoc session with no cards; exercises are picked as sets
// get logged.
func (l *Logger) BeginWorkout(routineID *uuid.UUID) (*models.Session, []ExerciseCard, error) {
	session, err := l.repo.StartSession(routineID)
	if err != nil {
		return nil, nil, err
	}
	if routineID == nil {
		return session, nil, nil
	}

	exercises, err := l.repo.RoutineExercises(*routineID)
	if err != nil {
		return nil, nil, fmt.Errorf("load routine exercises: %w", err)
	}

	cards := make([]ExerciseCard, 0, len(exercises))
	for _, ex := range exercises {
		last, err := l.queries.LastStatsFor(ex.ID, session.StartedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("last stats for %s: %w", ex.Name, err)
		}
		cards = append(cards, ExerciseCard{Exercise: ex, Last: last})
	}
	return session, cards, nil
}

// LogEntry records one set in the session. Logging the same set number for
// the same exercise again overwrites the earlier values.
func (l *Logger) LogEntry(sessionID, exerciseID uuid.UUID, weight float64, reps, setNumber int) (*models.SetEntry, error) {
	return l.repo.LogSet(sessionID, exerciseID, weight, reps, setNumber)
}

// FinishWorkout closes the session. Finishing twice is rejected.
func (l *Logger) FinishWorkout(sessionID uuid.UUID) (*models.Session, error) {
	return l.repo.FinishSession(sessionID)
}

// Duration reports how long a session ran, using now for an open session.
func Duration(s *models.Session, now time.Time) time.Duration {
	if s.FinishedAt != nil {
		return s.FinishedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}
