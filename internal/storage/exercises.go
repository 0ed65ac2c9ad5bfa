// ABOUTME: Exercise CRUD operations for SQLite storage.
// ABOUTME: Enforces unique names and protects exercises with logged history.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
)

// CreateExercise stores a new exercise. The name must be non-empty and
// unique among all exercises, compared case-insensitively.
func (d *DB) CreateExercise(name string) (*models.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "must not be empty")
	}

	existing, err := d.GetExerciseByName(name)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("exercise %q: %w", name, models.ErrDuplicateName)
	}

	e := models.NewExercise(name)
	_, err = d.db.Exec(
		"INSERT INTO exercises (id, name, archived, created_at) VALUES (?, ?, 0, ?)",
		e.ID.String(), e.Name, fmtTime(e.CreatedAt),
	)
	if err != nil {
		return nil, models.NewStorageError("create exercise", err)
	}
	return e, nil
}

// GetExercise retrieves an exercise by ID.
func (d *DB) GetExercise(id uuid.UUID) (*models.Exercise, error) {
	row := d.db.QueryRow(
		"SELECT id, name, archived, created_at FROM exercises WHERE id = ?",
		id.String(),
	)
	e, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("exercise %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

// GetExerciseByName retrieves an exercise by name, case-insensitively.
func (d *DB) GetExerciseByName(name string) (*models.Exercise, error) {
	row := d.db.QueryRow(
		"SELECT id, name, archived, created_at FROM exercises WHERE name = ? COLLATE NOCASE",
		strings.TrimSpace(name),
	)
	e, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("exercise %q: %w", name, models.ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

// ListExercises retrieves exercises ordered by name. Archived exercises are
// excluded unless includeArchived is set.
func (d *DB) ListExercises(includeArchived bool) ([]*models.Exercise, error) {
	query := "SELECT id, name, archived, created_at FROM exercises"
	if !includeArchived {
		query += " WHERE archived = 0"
	}
	query += " ORDER BY name COLLATE NOCASE ASC"

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, models.NewStorageError("list exercises", err)
	}
	defer rows.Close()

	var exercises []*models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// ArchiveExercise hides an exercise from pickers while keeping its history
// queryable. Archiving an already-archived exercise is a no-op.
func (d *DB) ArchiveExercise(id uuid.UUID) error {
	result, err := d.db.Exec("UPDATE exercises SET archived = 1 WHERE id = ?", id.String())
	if err != nil {
		return models.NewStorageError("archive exercise", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.NewStorageError("archive exercise", err)
	}
	if affected == 0 {
		return fmt.Errorf("exercise %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteExercise removes an exercise and its routine associations. The
// delete is rejected with ErrInUse while any set entry references the
// exercise; archive instead to hide it without losing history.
func (d *DB) DeleteExercise(id uuid.UUID) error {
	return d.withTx(func(tx *sql.Tx) error {
		var refs int
		err := tx.QueryRow(
			"SELECT COUNT(*) FROM set_entries WHERE exercise_id = ?", id.String(),
		).Scan(&refs)
		if err != nil {
			return models.NewStorageError("count exercise history", err)
		}
		if refs > 0 {
			return fmt.Errorf("exercise %s: %w", id, models.ErrInUse)
		}

		// Associations cascade via FK
		result, err := tx.Exec("DELETE FROM exercises WHERE id = ?", id.String())
		if err != nil {
			return models.NewStorageError("delete exercise", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return models.NewStorageError("delete exercise", err)
		}
		if affected == 0 {
			return fmt.Errorf("exercise %s: %w", id, models.ErrNotFound)
		}
		return nil
	})
}

// rowScanner abstracts sql.Row and sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanExercise scans a single row into an Exercise.
func scanExercise(row rowScanner) (*models.Exercise, error) {
	var e models.Exercise
	var idStr, createdAt string
	var archived int

	if err := row.Scan(&idStr, &e.Name, &archived, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, models.NewStorageError("scan exercise", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, models.NewStorageError("parse exercise id", err)
	}
	e.ID = id
	e.Archived = archived != 0
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}
