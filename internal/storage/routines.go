// ABOUTME: Routine and association CRUD operations for SQLite storage.
// ABOUTME: Implements transactional replace-on-save of a routine's exercise list.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
)

// CreateRoutine stores a new routine. The name must be non-empty and unique
// among live routines, compared case-insensitively.
func (d *DB) CreateRoutine(name string) (*models.Routine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "must not be empty")
	}

	existing, err := d.GetRoutineByName(name)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("routine %q: %w", name, models.ErrDuplicateName)
	}

	r := models.NewRoutine(name)
	_, err = d.db.Exec(
		"INSERT INTO routines (id, name, created_at) VALUES (?, ?, ?)",
		r.ID.String(), r.Name, fmtTime(r.CreatedAt),
	)
	if err != nil {
		return nil, models.NewStorageError("create routine", err)
	}
	return r, nil
}

// GetRoutine retrieves a routine by ID.
func (d *DB) GetRoutine(id uuid.UUID) (*models.Routine, error) {
	row := d.db.QueryRow(
		"SELECT id, name, created_at FROM routines WHERE id = ?", id.String(),
	)
	r, err := scanRoutine(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("routine %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}

// GetRoutineByName retrieves a routine by name, case-insensitively.
func (d *DB) GetRoutineByName(name string) (*models.Routine, error) {
	row := d.db.QueryRow(
		"SELECT id, name, created_at FROM routines WHERE name = ? COLLATE NOCASE",
		strings.TrimSpace(name),
	)
	r, err := scanRoutine(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("routine %q: %w", name, models.ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}

// ListRoutines retrieves all routines ordered by name.
func (d *DB) ListRoutines() ([]*models.Routine, error) {
	rows, err := d.db.Query(
		"SELECT id, name, created_at FROM routines ORDER BY name COLLATE NOCASE ASC",
	)
	if err != nil {
		return nil, models.NewStorageError("list routines", err)
	}
	defer rows.Close()

	var routines []*models.Routine
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		routines = append(routines, r)
	}
	return routines, rows.Err()
}

// DeleteRoutine removes a routine and its associations. Sessions started
// from the routine keep their history; their routine reference is cleared.
func (d *DB) DeleteRoutine(id uuid.UUID) error {
	// Associations cascade and sessions.routine_id is set NULL via FK
	result, err := d.db.Exec("DELETE FROM routines WHERE id = ?", id.String())
	if err != nil {
		return models.NewStorageError("delete routine", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.NewStorageError("delete routine", err)
	}
	if affected == 0 {
		return fmt.Errorf("routine %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// SetRoutineExercises replaces the routine's exercise list atomically with
// the given ordered IDs. Position equals the slice index. Delete-then-
// reinsert inside one transaction avoids diff logic; a crash mid-operation
// leaves the previous list intact.
func (d *DB) SetRoutineExercises(routineID uuid.UUID, exerciseIDs []uuid.UUID) error {
	seen := make(map[uuid.UUID]bool, len(exerciseIDs))
	for _, id := range exerciseIDs {
		if seen[id] {
			return models.NewValidationError("exercise_ids", fmt.Sprintf("duplicate exercise %s", id))
		}
		seen[id] = true
	}

	return d.withTx(func(tx *sql.Tx) error {
		if err := rowExists(tx, "routines", routineID); err != nil {
			return err
		}
		for _, exerciseID := range exerciseIDs {
			if err := rowExists(tx, "exercises", exerciseID); err != nil {
				return err
			}
		}

		if _, err := tx.Exec("DELETE FROM associations WHERE routine_id = ?", routineID.String()); err != nil {
			return models.NewStorageError("clear associations", err)
		}

		for position, exerciseID := range exerciseIDs {
			_, err := tx.Exec(
				"INSERT INTO associations (routine_id, exercise_id, position) VALUES (?, ?, ?)",
				routineID.String(), exerciseID.String(), position,
			)
			if err != nil {
				return models.NewStorageError("insert association", err)
			}
		}
		return nil
	})
}

// RoutineExercises retrieves the routine's exercises ordered by position.
func (d *DB) RoutineExercises(routineID uuid.UUID) ([]*models.Exercise, error) {
	if _, err := d.GetRoutine(routineID); err != nil {
		return nil, err
	}

	rows, err := d.db.Query(`
		SELECT e.id, e.name, e.archived, e.created_at
		FROM exercises e
		JOIN associations a ON e.id = a.exercise_id
		WHERE a.routine_id = ?
		ORDER BY a.position ASC
	`, routineID.String())
	if err != nil {
		return nil, models.NewStorageError("list routine exercises", err)
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

// rowExists verifies the referenced row exists inside a transaction.
func rowExists(tx *sql.Tx, table string, id uuid.UUID) error {
	var n int
	err := tx.QueryRow(
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", table), id.String(),
	).Scan(&n)
	if err != nil {
		return models.NewStorageError("check "+table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", strings.TrimSuffix(table, "s"), id, models.ErrNotFound)
	}
	return nil
}

// scanRoutine scans a single row into a Routine.
func scanRoutine(row rowScanner) (*models.Routine, error) {
	var r models.Routine
	var idStr, createdAt string

	if err := row.Scan(&idStr, &r.Name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, models.NewStorageError("scan routine", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, models.NewStorageError("parse routine id", err)
	}
	r.ID = id
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &r, nil
}
