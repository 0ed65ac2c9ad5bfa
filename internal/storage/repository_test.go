// ABOUTME: Tests for Repository interface implementation over SQLite.
// ABOUTME: Verifies CRUD invariants for routines, exercises, sessions, sets.
package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "gym.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return db
}

func TestCreateAndGetRoutine(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	r, err := db.CreateRoutine("Push Day")
	if err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}

	got, err := db.GetRoutine(r.ID)
	if err != nil {
		t.Fatalf("GetRoutine failed: %v", err)
	}
	if got.Name != "Push Day" {
		t.Errorf("Name mismatch: got %q, want %q", got.Name, "Push Day")
	}
	if got.ID != r.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, r.ID)
	}
}

func TestCreateRoutineDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.CreateRoutine("Push Day"); err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}

	// Duplicate check is case-insensitive
	for _, name := range []string{"Push Day", "push day", "PUSH DAY"} {
		_, err := db.CreateRoutine(name)
		if !errors.Is(err, models.ErrDuplicateName) {
			t.Errorf("CreateRoutine(%q): expected ErrDuplicateName, got %v", name, err)
		}
	}
}

func TestCreateRoutineEmptyName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for _, name := range []string{"", "   "} {
		_, err := db.CreateRoutine(name)
		var ve *models.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("CreateRoutine(%q): expected ValidationError, got %v", name, err)
		}
	}
}

func TestCreateExerciseDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.CreateExercise("Bench Press"); err != nil {
		t.Fatalf("CreateExercise failed: %v", err)
	}
	_, err := db.CreateExercise("bench press")
	if !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName, got %v", err)
	}
}

func TestSetRoutineExercises(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	r, _ := db.CreateRoutine("Push Day")
	bench, _ := db.CreateExercise("Bench Press")
	ohp, _ := db.CreateExercise("Overhead Press")
	dips, _ := db.CreateExercise("Dips")

	order := []uuid.UUID{dips.ID, bench.ID, ohp.ID}
	if err := db.SetRoutineExercises(r.ID, order); err != nil {
		t.Fatalf("SetRoutineExercises failed: %v", err)
	}

	got, err := db.RoutineExercises(r.ID)
	if err != nil {
		t.Fatalf("RoutineExercises failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 exercises, got %d", len(got))
	}
	for i, want := range order {
		if got[i].ID != want {
			t.Errorf("Position %d: got %v, want %v", i, got[i].ID, want)
		}
	}

	// Replace-on-save: new list fully supersedes the old one
	if err := db.SetRoutineExercises(r.ID, []uuid.UUID{bench.ID}); err != nil {
		t.Fatalf("SetRoutineExercises replace failed: %v", err)
	}
	got, _ = db.RoutineExercises(r.ID)
	if len(got) != 1 || got[0].ID != bench.ID {
		t.Errorf("Expected only bench press after replace, got %d entries", len(got))
	}
}

func TestSetRoutineExercisesUnknownIDs(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	r, _ := db.CreateRoutine("Push Day")
	bench, _ := db.CreateExercise("Bench Press")

	err := db.SetRoutineExercises(uuid.New(), []uuid.UUID{bench.ID})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Unknown routine: expected ErrNotFound, got %v", err)
	}

	err = db.SetRoutineExercises(r.ID, []uuid.UUID{bench.ID, uuid.New()})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Unknown exercise: expected ErrNotFound, got %v", err)
	}

	// Failed replace must not clear the existing list
	if err := db.SetRoutineExercises(r.ID, []uuid.UUID{bench.ID}); err != nil {
		t.Fatalf("SetRoutineExercises failed: %v", err)
	}
	if err := db.SetRoutineExercises(r.ID, []uuid.UUID{uuid.New()}); err == nil {
		t.Fatal("Expected error for unknown exercise")
	}
	got, _ := db.RoutineExercises(r.ID)
	if len(got) != 1 {
		t.Errorf("Failed replace should leave previous associations, got %d", len(got))
	}
}

func TestDeleteRoutineKeepsExercisesAndHistory(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	r, _ := db.CreateRoutine("Push Day")
	bench, _ := db.CreateExercise("Bench Press")
	ohp, _ := db.CreateExercise("Overhead Press")
	dips, _ := db.CreateExercise("Dips")
	if err := db.SetRoutineExercises(r.ID, []uuid.UUID{bench.ID, ohp.ID, dips.ID}); err != nil {
		t.Fatalf("SetRoutineExercises failed: %v", err)
	}

	s, _ := db.StartSession(&r.ID)
	if _, err := db.LogSet(s.ID, bench.ID, 135, 10, 1); err != nil {
		t.Fatalf("LogSet failed: %v", err)
	}

	if err := db.DeleteRoutine(r.ID); err != nil {
		t.Fatalf("DeleteRoutine failed: %v", err)
	}

	if _, err := db.RoutineExercises(r.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Exercises survive independently
	for _, e := range []*models.Exercise{bench, ohp, dips} {
		if _, err := db.GetExercise(e.ID); err != nil {
			t.Errorf("Exercise %s should survive routine delete: %v", e.Name, err)
		}
	}

	// Logged history stays queryable; the session loses its routine ref
	sets, err := db.SetsForExercise(bench.ID)
	if err != nil || len(sets) != 1 {
		t.Fatalf("Expected 1 surviving set entry, got %d (err %v)", len(sets), err)
	}
	got, err := db.GetSession(s.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.RoutineID != nil {
		t.Errorf("Expected session routine reference cleared, got %v", got.RoutineID)
	}

	if err := db.DeleteRoutine(r.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Second delete: expected ErrNotFound, got %v", err)
	}
}

func TestLogSetValidation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	bench, _ := db.CreateExercise("Bench Press")
	s, _ := db.StartSession(nil)

	tests := []struct {
		name      string
		weight    float64
		reps      int
		setNumber int
	}{
		{"negative weight", -1, 10, 1},
		{"negative reps", 135, -1, 1},
		{"zero set number", 135, 10, 0},
		{"negative set number", 135, 10, -2},
	}
	for _, tt := range tests {
		_, err := db.LogSet(s.ID, bench.ID, tt.weight, tt.reps, tt.setNumber)
		var ve *models.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %v", tt.name, err)
		}
	}

	// Zero weight and zero reps are legal (bodyweight work, failed set)
	if _, err := db.LogSet(s.ID, bench.ID, 0, 0, 1); err != nil {
		t.Errorf("Zero weight/reps should be accepted: %v", err)
	}
}

func TestLogSetUnknownRefs(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	bench, _ := db.CreateExercise("Bench Press")
	s, _ := db.StartSession(nil)

	if _, err := db.LogSet(uuid.New(), bench.ID, 100, 5, 1); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Unknown session: expected ErrNotFound, got %v", err)
	}
	if _, err := db.LogSet(s.ID, uuid.New(), 100, 5, 1); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Unknown exercise: expected ErrNotFound, got %v", err)
	}
}

func TestLogSetIdempotentUpsert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	bench, _ := db.CreateExercise("Bench Press")
	s, _ := db.StartSession(nil)

	first, err := db.LogSet(s.ID, bench.ID, 135, 10, 1)
	if err != nil {
		t.Fatalf("LogSet failed: %v", err)
	}

	// Same slot again with corrected values overwrites in place
	second, err := db.LogSet(s.ID, bench.ID, 140, 8, 1)
	if err != nil {
		t.Fatalf("Repeated LogSet failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Upsert should keep the original entry ID: got %v, want %v", second.ID, first.ID)
	}

	sets, err := db.SetsForSession(s.ID)
	if err != nil {
		t.Fatalf("SetsForSession failed: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("Expected exactly 1 entry after upsert, got %d", len(sets))
	}
	if sets[0].Weight != 140 || sets[0].Reps != 8 {
		t.Errorf("Expected latest values 140x8, got %vx%v", sets[0].Weight, sets[0].Reps)
	}
	if !sets[0].LoggedAt.After(first.LoggedAt) && !sets[0].LoggedAt.Equal(first.LoggedAt) {
		t.Errorf("logged_at should be refreshed on upsert")
	}

	// A different set number is a separate entry
	if _, err := db.LogSet(s.ID, bench.ID, 140, 6, 2); err != nil {
		t.Fatalf("LogSet set 2 failed: %v", err)
	}
	sets, _ = db.SetsForSession(s.ID)
	if len(sets) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(sets))
	}
}

func TestStartSessionUnknownRoutine(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	bogus := uuid.New()
	if _, err := db.StartSession(&bogus); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFinishSession(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s, _ := db.StartSession(nil)

	finished, err := db.FinishSession(s.ID)
	if err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}
	if finished.FinishedAt == nil {
		t.Fatal("Expected FinishedAt to be set")
	}
	if finished.FinishedAt.Before(finished.StartedAt) {
		t.Error("finished_at must be >= started_at")
	}

	// No silent re-finish
	_, err = db.FinishSession(s.ID)
	if !errors.Is(err, models.ErrAlreadyFinished) {
		t.Errorf("Expected ErrAlreadyFinished, got %v", err)
	}

	// Original timestamp unchanged after the failed second call
	got, _ := db.GetSession(s.ID)
	if got.FinishedAt == nil || !got.FinishedAt.Equal(*finished.FinishedAt) {
		t.Errorf("FinishedAt changed: got %v, want %v", got.FinishedAt, finished.FinishedAt)
	}

	if _, err := db.FinishSession(uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Unknown session: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSessionCascadesSets(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	bench, _ := db.CreateExercise("Bench Press")
	s, _ := db.StartSession(nil)
	if _, err := db.LogSet(s.ID, bench.ID, 135, 10, 1); err != nil {
		t.Fatalf("LogSet failed: %v", err)
	}

	if err := db.DeleteSession(s.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	sets, err := db.SetsForExercise(bench.ID)
	if err != nil {
		t.Fatalf("SetsForExercise failed: %v", err)
	}
	if len(sets) != 0 {
		t.Errorf("Expected set entries to cascade with session, got %d", len(sets))
	}
}

func TestLatestSetBefore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	bench, _ := db.CreateExercise("Bench Press")
	s, _ := db.StartSession(nil)

	entry, err := db.LogSet(s.ID, bench.ID, 135, 10, 1)
	if err != nil {
		t.Fatalf("LogSet failed: %v", err)
	}

	// Strictly before: the entry's own timestamp is excluded
	got, err := db.LatestSetBefore(bench.ID, entry.LoggedAt)
	if err != nil {
		t.Fatalf("LatestSetBefore failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected no entry at logged_at boundary, got %+v", got)
	}

	got, err = db.LatestSetBefore(bench.ID, entry.LoggedAt.Add(time.Millisecond))
	if err != nil {
		t.Fatalf("LatestSetBefore failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected the logged entry")
	}
	if got.Weight != 135 || got.Reps != 10 || got.SetNumber != 1 {
		t.Errorf("Entry mismatch: got %+v", got)
	}

	// No history at all
	squat, _ := db.CreateExercise("Squat")
	got, err = db.LatestSetBefore(squat.ID, time.Now())
	if err != nil || got != nil {
		t.Errorf("Expected (nil, nil) for fresh exercise, got (%+v, %v)", got, err)
	}
}

func TestArchiveExercise(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	bench, _ := db.CreateExercise("Bench Press")
	squat, _ := db.CreateExercise("Squat")

	if err := db.ArchiveExercise(bench.ID); err != nil {
		t.Fatalf("ArchiveExercise failed: %v", err)
	}

	active, err := db.ListExercises(false)
	if err != nil {
		t.Fatalf("ListExercises failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != squat.ID {
		t.Errorf("Expected only squat active, got %d entries", len(active))
	}

	all, _ := db.ListExercises(true)
	if len(all) != 2 {
		t.Errorf("Expected 2 exercises including archived, got %d", len(all))
	}

	if err := db.ArchiveExercise(uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteExerciseInUse(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	bench, _ := db.CreateExercise("Bench Press")
	s, _ := db.StartSession(nil)
	if _, err := db.LogSet(s.ID, bench.ID, 135, 10, 1); err != nil {
		t.Fatalf("LogSet failed: %v", err)
	}

	err := db.DeleteExercise(bench.ID)
	if !errors.Is(err, models.ErrInUse) {
		t.Errorf("Expected ErrInUse, got %v", err)
	}
	if _, err := db.GetExercise(bench.ID); err != nil {
		t.Errorf("Exercise should survive rejected delete: %v", err)
	}

	// Without history the delete succeeds and removes associations
	squat, _ := db.CreateExercise("Squat")
	r, _ := db.CreateRoutine("Leg Day")
	if err := db.SetRoutineExercises(r.ID, []uuid.UUID{squat.ID}); err != nil {
		t.Fatalf("SetRoutineExercises failed: %v", err)
	}
	if err := db.DeleteExercise(squat.ID); err != nil {
		t.Fatalf("DeleteExercise failed: %v", err)
	}
	linked, _ := db.RoutineExercises(r.ID)
	if len(linked) != 0 {
		t.Errorf("Expected associations removed with exercise, got %d", len(linked))
	}
}

func TestListSessions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		s, err := db.StartSession(nil)
		if err != nil {
			t.Fatalf("StartSession failed: %v", err)
		}
		ids = append(ids, s.ID)
		time.Sleep(2 * time.Millisecond)
	}

	sessions, err := db.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	// Most recent first
	if sessions[0].ID != ids[2] {
		t.Errorf("Expected most recent session first, got %v", sessions[0].ID)
	}

	limited, _ := db.ListSessions(2)
	if len(limited) != 2 {
		t.Errorf("Expected 2 sessions with limit, got %d", len(limited))
	}
}
