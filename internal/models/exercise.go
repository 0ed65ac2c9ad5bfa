// ABOUTME: Exercise model for the workout engine.
// ABOUTME: A named movement tracked independently of any routine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Exercise represents a named movement (e.g. "Bench Press").
// Archived exercises are hidden from pickers but keep their history.
type Exercise struct {
	ID        uuid.UUID
	Name      string
	Archived  bool
	CreatedAt time.Time
}

// NewExercise creates an Exercise with a generated UUID and current timestamp.
func NewExercise(name string) *Exercise {
	return &Exercise{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}
