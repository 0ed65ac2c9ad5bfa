// ABOUTME: Export and import functionality for workout data.
// ABOUTME: Supports JSON and YAML export formats with stable record shapes.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
)

// ExportData represents the full export format for workout data.
type ExportData struct {
	Version    string           `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Tool       string           `json:"tool" yaml:"tool"`
	Exercises  []ExportExercise `json:"exercises" yaml:"exercises"`
	Routines   []ExportRoutine  `json:"routines" yaml:"routines"`
	Sessions   []ExportSession  `json:"sessions" yaml:"sessions"`
}

// ExportExercise is the serialized form of an Exercise.
type ExportExercise struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Archived  bool      `json:"archived,omitempty" yaml:"archived,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ExportRoutine is the serialized form of a Routine with its ordered
// exercise references (the associations).
type ExportRoutine struct {
	ID        uuid.UUID   `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	CreatedAt time.Time   `json:"created_at" yaml:"created_at"`
	Exercises []uuid.UUID `json:"exercises" yaml:"exercises"`
}

// ExportSession is the serialized form of a Session with its set entries.
type ExportSession struct {
	ID         uuid.UUID   `json:"id" yaml:"id"`
	RoutineID  *uuid.UUID  `json:"routine_id,omitempty" yaml:"routine_id,omitempty"`
	StartedAt  time.Time   `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Sets       []ExportSet `json:"sets" yaml:"sets"`
}

// ExportSet is the serialized form of a SetEntry.
type ExportSet struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	ExerciseID uuid.UUID `json:"exercise_id" yaml:"exercise_id"`
	Weight     float64   `json:"weight" yaml:"weight"`
	Reps       int       `json:"reps" yaml:"reps"`
	SetNumber  int       `json:"set_number" yaml:"set_number"`
	LoggedAt   time.Time `json:"logged_at" yaml:"logged_at"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "gym-tracker",
	}

	exercises, err := d.ListExercises(true)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	for _, e := range exercises {
		data.Exercises = append(data.Exercises, ExportExercise{
			ID:        e.ID,
			Name:      e.Name,
			Archived:  e.Archived,
			CreatedAt: e.CreatedAt,
		})
	}

	routines, err := d.ListRoutines()
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	for _, r := range routines {
		linked, err := d.RoutineExercises(r.ID)
		if err != nil {
			return nil, fmt.Errorf("routine exercises: %w", err)
		}
		er := ExportRoutine{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
		for _, e := range linked {
			er.Exercises = append(er.Exercises, e.ID)
		}
		data.Routines = append(data.Routines, er)
	}

	sessions, err := d.ListSessions(0)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	for _, s := range sessions {
		sets, err := d.SetsForSession(s.ID)
		if err != nil {
			return nil, fmt.Errorf("session sets: %w", err)
		}
		es := ExportSession{
			ID:         s.ID,
			RoutineID:  s.RoutineID,
			StartedAt:  s.StartedAt,
			FinishedAt: s.FinishedAt,
		}
		for _, e := range sets {
			es.Sets = append(es.Sets, ExportSet{
				ID:         e.ID,
				ExerciseID: e.ExerciseID,
				Weight:     e.Weight,
				Reps:       e.Reps,
				SetNumber:  e.SetNumber,
				LoggedAt:   e.LoggedAt,
			})
		}
		data.Sessions = append(data.Sessions, es)
	}

	return data, nil
}

// ImportData loads an export into the database, preserving IDs and
// timestamps. The whole import is one transaction; it is intended for an
// empty database.
func (d *DB) ImportData(data *ExportData) error {
	return d.withTx(func(tx *sql.Tx) error {
		for _, e := range data.Exercises {
			archived := 0
			if e.Archived {
				archived = 1
			}
			_, err := tx.Exec(
				"INSERT INTO exercises (id, name, archived, created_at) VALUES (?, ?, ?, ?)",
				e.ID.String(), e.Name, archived, fmtTime(e.CreatedAt),
			)
			if err != nil {
				return models.NewStorageError("import exercise", err)
			}
		}

		for _, r := range data.Routines {
			_, err := tx.Exec(
				"INSERT INTO routines (id, name, created_at) VALUES (?, ?, ?)",
				r.ID.String(), r.Name, fmtTime(r.CreatedAt),
			)
			if err != nil {
				return models.NewStorageError("import routine", err)
			}
			for position, exerciseID := range r.Exercises {
				_, err := tx.Exec(
					"INSERT INTO associations (routine_id, exercise_id, position) VALUES (?, ?, ?)",
					r.ID.String(), exerciseID.String(), position,
				)
				if err != nil {
					return models.NewStorageError("import association", err)
				}
			}
		}

		for _, s := range data.Sessions {
			var routineID, finishedAt any
			if s.RoutineID != nil {
				routineID = s.RoutineID.String()
			}
			if s.FinishedAt != nil {
				finishedAt = fmtTime(*s.FinishedAt)
			}
			_, err := tx.Exec(
				"INSERT INTO sessions (id, routine_id, started_at, finished_at) VALUES (?, ?, ?, ?)",
				s.ID.String(), routineID, fmtTime(s.StartedAt), finishedAt,
			)
			if err != nil {
				return models.NewStorageError("import session", err)
			}
			for _, e := range s.Sets {
				_, err := tx.Exec(`
					INSERT INTO set_entries (id, session_id, exercise_id, weight, reps, set_number, logged_at)
					VALUES (?, ?, ?, ?, ?, ?, ?)
				`, e.ID.String(), s.ID.String(), e.ExerciseID.String(), e.Weight, e.Reps, e.SetNumber, fmtTime(e.LoggedAt))
				if err != nil {
					return models.NewStorageError("import set entry", err)
				}
			}
		}
		return nil
	})
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (d *DB) ExportYAML() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON parses a JSON export and loads it into the database.
func (d *DB) ImportJSON(raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse export: %w", err)
	}
	return d.ImportData(&data)
}
