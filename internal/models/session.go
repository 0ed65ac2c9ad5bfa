// ABOUTME: Session and SetEntry models for the workout engine.
// ABOUTME: A session is one performed workout; set entries are its logged work.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one instance of performing a workout, bounded by
// start/finish timestamps. RoutineID is nil for ad hoc sessions.
type Session struct {
	ID         uuid.UUID
	RoutineID  *uuid.UUID
	StartedAt  time.Time
	FinishedAt *time.Time
	Sets       []SetEntry // Populated when fetching a full session
}

// NewSession creates a Session started now with a generated UUID.
func NewSession(routineID *uuid.UUID) *Session {
	return &Session{
		ID:        uuid.New(),
		RoutineID: routineID,
		StartedAt: time.Now(),
	}
}

// Finished reports whether the session has been finished.
func (s *Session) Finished() bool {
	return s.FinishedAt != nil
}

// SetEntry represents one logged unit of work (weight x reps) for one
// exercise within one session. SetNumber is unique within
// (SessionID, ExerciseID).
type SetEntry struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	ExerciseID uuid.UUID
	Weight     float64
	Reps       int
	SetNumber  int
	LoggedAt   time.Time
}

// NewSetEntry creates a SetEntry logged now with a generated UUID.
func NewSetEntry(sessionID, exerciseID uuid.UUID, weight float64, reps, setNumber int) *SetEntry {
	return &SetEntry{
		ID:         uuid.New(),
		SessionID:  sessionID,
		ExerciseID: exerciseID,
		Weight:     weight,
		Reps:       reps,
		SetNumber:  setNumber,
		LoggedAt:   time.Now(),
	}
}

// Volume returns the effort of this set: weight multiplied by reps.
func (e *SetEntry) Volume() float64 {
	return e.Weight * float64(e.Reps)
}
