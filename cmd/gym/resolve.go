// ABOUTME: Argument resolution helpers for the gym CLI.
// ABOUTME: Maps names and ID prefixes to stored entities.
package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
)

// resolveExercise accepts an exercise name, full UUID, or ID prefix.
func resolveExercise(ref string) (*models.Exercise, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return repo.GetExercise(id)
	}
	if e, err := repo.GetExerciseByName(ref); err == nil {
		return e, nil
	}

	exercises, err := repo.ListExercises(true)
	if err != nil {
		return nil, err
	}
	var match *models.Exercise
	for _, e := range exercises {
		if strings.HasPrefix(e.ID.String(), ref) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous exercise ID prefix: %s", ref)
			}
			match = e
		}
	}
	if match == nil {
		return nil, fmt.Errorf("exercise not found: %s", ref)
	}
	return match, nil
}

// resolveRoutine accepts a routine name, full UUID, or ID prefix.
func resolveRoutine(ref string) (*models.Routine, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return repo.GetRoutine(id)
	}
	if r, err := repo.GetRoutineByName(ref); err == nil {
		return r, nil
	}

	routines, err := repo.ListRoutines()
	if err != nil {
		return nil, err
	}
	var match *models.Routine
	for _, r := range routines {
		if strings.HasPrefix(r.ID.String(), ref) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous routine ID prefix: %s", ref)
			}
			match = r
		}
	}
	if match == nil {
		return nil, fmt.Errorf("routine not found: %s", ref)
	}
	return match, nil
}

// resolveSession accepts a session ID prefix, or finds the most recent
// open session when ref is empty.
func resolveSession(ref string) (*models.Session, error) {
	sessions, err := repo.ListSessions(0)
	if err != nil {
		return nil, err
	}

	if ref == "" {
		for _, s := range sessions {
			if !s.Finished() {
				return s, nil
			}
		}
		return nil, fmt.Errorf("no open session; run 'gym start' first")
	}

	var match *models.Session
	for _, s := range sessions {
		if strings.HasPrefix(s.ID.String(), ref) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous session ID prefix: %s", ref)
			}
			match = s
		}
	}
	if match == nil {
		return nil, fmt.Errorf("session not found: %s", ref)
	}
	return match, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
