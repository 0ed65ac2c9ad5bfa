// ABOUTME: Routine and Association models for the workout engine.
// ABOUTME: A routine is an ordered, reusable list of exercises.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Routine represents a named, reusable workout plan (e.g. "Push Day").
type Routine struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// NewRoutine creates a Routine with a generated UUID and current timestamp.
func NewRoutine(name string) *Routine {
	return &Routine{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// Association links an Exercise into a Routine at a given position.
// The (RoutineID, ExerciseID) pair is unique; Position reflects the order
// exercises appear within the routine.
type Association struct {
	RoutineID  uuid.UUID
	ExerciseID uuid.UUID
	Position   int
}
