// ABOUTME: Repository interface for workout engine storage.
// ABOUTME: Defines the typed CRUD contract over routines, exercises, sessions, sets.
package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
)

// Repository defines the storage interface for workout data. The query
// engine and session logger depend on this interface, not on SQLite, so
// implementations can be swapped (e.g. for testing).
type Repository interface {
	// Routine operations
	CreateRoutine(name string) (*models.Routine, error)
	GetRoutine(id uuid.UUID) (*models.Routine, error)
	GetRoutineByName(name string) (*models.Routine, error)
	ListRoutines() ([]*models.Routine, error)
	DeleteRoutine(id uuid.UUID) error
	SetRoutineExercises(routineID uuid.UUID, exerciseIDs []uuid.UUID) error
	RoutineExercises(routineID uuid.UUID) ([]*models.Exercise, error)

	// Exercise operations
	CreateExercise(name string) (*models.Exercise, error)
	GetExercise(id uuid.UUID) (*models.Exercise, error)
	GetExerciseByName(name string) (*models.Exercise, error)
	ListExercises(includeArchived bool) ([]*models.Exercise, error)
	ArchiveExercise(id uuid.UUID) error
	DeleteExercise(id uuid.UUID) error

	// Session operations
	StartSession(routineID *uuid.UUID) (*models.Session, error)
	GetSession(id uuid.UUID) (*models.Session, error)
	ListSessions(limit int) ([]*models.Session, error)
	FinishSession(id uuid.UUID) (*models.Session, error)
	DeleteSession(id uuid.UUID) error

	// Set entry operations
	LogSet(sessionID, exerciseID uuid.UUID, weight float64, reps, setNumber int) (*models.SetEntry, error)
	SetsForSession(sessionID uuid.UUID) ([]*models.SetEntry, error)
	SetsForExercise(exerciseID uuid.UUID) ([]*models.SetEntry, error)
	LatestSetBefore(exerciseID uuid.UUID, before time.Time) (*models.SetEntry, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
