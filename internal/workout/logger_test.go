// ABOUTME: Tests for the workout session logger.
// ABOUTME: Covers card prefill, ad hoc sessions, and the finish flow.
package workout

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
	"github.com/josemarichal/gym-tracker/internal/storage"
)

func setupLogger(t *testing.T) (*Logger, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "gym.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewLogger(db), db
}

func TestBeginWorkoutBuildsCards(t *testing.T) {
	logger, db := setupLogger(t)

	bench, _ := db.CreateExercise("Bench Press")
	squat, _ := db.CreateExercise("Squat")
	routine, _ := db.CreateRoutine("Push Day")
	if err := db.SetRoutineExercises(routine.ID, []uuid.UUID{squat.ID, bench.ID}); err != nil {
		t.Fatalf("SetRoutineExercises failed: %v", err)
	}

	// Prior session gives the bench card something to show
	prior, _, err := logger.BeginWorkout(&routine.ID)
	if err != nil {
		t.Fatalf("BeginWorkout failed: %v", err)
	}
	if _, err := logger.LogEntry(prior.ID, bench.ID, 135, 10, 1); err != nil {
		t.Fatalf("LogEntry failed: %v", err)
	}
	if _, err := logger.FinishWorkout(prior.ID); err != nil {
		t.Fatalf("FinishWorkout failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	session, cards, err := logger.BeginWorkout(&routine.ID)
	if err != nil {
		t.Fatalf("BeginWorkout failed: %v", err)
	}
	if session.RoutineID == nil || *session.RoutineID != routine.ID {
		t.Error("Session should reference the routine")
	}
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	if cards[0].Exercise.ID != squat.ID || cards[1].Exercise.ID != bench.ID {
		t.Error("Cards should follow routine order")
	}
	if cards[0].Last != nil {
		t.Errorf("Squat was never logged, expected nil stats, got %+v", cards[0].Last)
	}
	if cards[1].Last == nil {
		t.Fatal("Bench card should carry last stats")
	}
	if cards[1].Last.Weight != 135 || cards[1].Last.Reps != 10 {
		t.Errorf("Last stats mismatch: got %+v", cards[1].Last)
	}
}

func TestBeginWorkoutCardsExcludeCurrentSession(t *testing.T) {
	logger, db := setupLogger(t)

	bench, _ := db.CreateExercise("Bench Press")
	routine, _ := db.CreateRoutine("Push Day")
	_ = db.SetRoutineExercises(routine.ID, []uuid.UUID{bench.ID})

	_, cards, err := logger.BeginWorkout(&routine.ID)
	if err != nil {
		t.Fatalf("BeginWorkout failed: %v", err)
	}
	if cards[0].Last != nil {
		t.Errorf("First-ever session must show no last stats, got %+v", cards[0].Last)
	}
}

func TestBeginWorkoutAdHoc(t *testing.T) {
	logger, db := setupLogger(t)

	session, cards, err := logger.BeginWorkout(nil)
	if err != nil {
		t.Fatalf("BeginWorkout failed: %v", err)
	}
	if session.RoutineID != nil {
		t.Error("Ad hoc session should have no routine")
	}
	if cards != nil {
		t.Errorf("Ad hoc session should have no cards, got %d", len(cards))
	}

	// Sets can still be logged against any exercise
	row, _ := db.CreateExercise("Deadlift")
	if _, err := logger.LogEntry(session.ID, row.ID, 225, 5, 1); err != nil {
		t.Fatalf("LogEntry failed: %v", err)
	}
}

func TestBeginWorkoutUnknownRoutine(t *testing.T) {
	logger, _ := setupLogger(t)

	missing := uuid.New()
	_, _, err := logger.BeginWorkout(&missing)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLogEntryOverwritesSameSet(t *testing.T) {
	logger, db := setupLogger(t)

	bench, _ := db.CreateExercise("Bench Press")
	session, _, _ := logger.BeginWorkout(nil)

	first, err := logger.LogEntry(session.ID, bench.ID, 135, 10, 1)
	if err != nil {
		t.Fatalf("LogEntry failed: %v", err)
	}
	second, err := logger.LogEntry(session.ID, bench.ID, 140, 8, 1)
	if err != nil {
		t.Fatalf("LogEntry failed: %v", err)
	}
	if second.ID != first.ID {
		t.Error("Re-logging a set should keep the original entry")
	}
	if second.Weight != 140 || second.Reps != 8 {
		t.Errorf("Entry should carry the corrected values, got %+v", second)
	}
}

func TestFinishWorkoutTwice(t *testing.T) {
	logger, _ := setupLogger(t)

	session, _, _ := logger.BeginWorkout(nil)
	if _, err := logger.FinishWorkout(session.ID); err != nil {
		t.Fatalf("FinishWorkout failed: %v", err)
	}
	_, err := logger.FinishWorkout(session.ID)
	if !errors.Is(err, models.ErrAlreadyFinished) {
		t.Errorf("Expected ErrAlreadyFinished, got %v", err)
	}
}

func TestDuration(t *testing.T) {
	started := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	finished := started.Add(45 * time.Minute)

	open := &models.Session{StartedAt: started}
	if got := Duration(open, started.Add(10*time.Minute)); got != 10*time.Minute {
		t.Errorf("Open session duration: got %v, want 10m", got)
	}

	closed := &models.Session{StartedAt: started, FinishedAt: &finished}
	if got := Duration(closed, started.Add(2*time.Hour)); got != 45*time.Minute {
		t.Errorf("Closed session duration: got %v, want 45m", got)
	}
}
