// ABOUTME: Set entry operations for SQLite storage.
// ABOUTME: Idempotent upsert logging plus the index-backed history reads.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
)

// LogSet records one set of an exercise within a session. Logging the same
// (session, exercise, set number) again overwrites weight/reps and refreshes
// logged_at, so an entry can be corrected before the session is finished.
func (d *DB) LogSet(sessionID, exerciseID uuid.UUID, weight float64, reps, setNumber int) (*models.SetEntry, error) {
	if weight < 0 {
		return nil, models.NewValidationError("weight", "must be non-negative")
	}
	if reps < 0 {
		return nil, models.NewValidationError("reps", "must be non-negative")
	}
	if setNumber <= 0 {
		return nil, models.NewValidationError("set_number", "must be positive")
	}

	if _, err := d.GetExercise(exerciseID); err != nil {
		return nil, err
	}
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE id = ?", sessionID.String()).Scan(&n)
	if err != nil {
		return nil, models.NewStorageError("check session", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("session %s: %w", sessionID, models.ErrNotFound)
	}

	e := models.NewSetEntry(sessionID, exerciseID, weight, reps, setNumber)
	_, err = d.db.Exec(`
		INSERT INTO set_entries (id, session_id, exercise_id, weight, reps, set_number, logged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, exercise_id, set_number) DO UPDATE SET
			weight = excluded.weight,
			reps = excluded.reps,
			logged_at = excluded.logged_at
	`, e.ID.String(), sessionID.String(), exerciseID.String(), weight, reps, setNumber, fmtTime(e.LoggedAt))
	if err != nil {
		return nil, models.NewStorageError("log set", err)
	}

	// On conflict the stored row keeps its original ID; return it.
	return d.getSetBySlot(sessionID, exerciseID, setNumber)
}

// SetsForSession retrieves a session's set entries ordered by exercise and
// set number.
func (d *DB) SetsForSession(sessionID uuid.UUID) ([]*models.SetEntry, error) {
	rows, err := d.db.Query(`
		SELECT id, session_id, exercise_id, weight, reps, set_number, logged_at
		FROM set_entries
		WHERE session_id = ?
		ORDER BY exercise_id, set_number ASC
	`, sessionID.String())
	if err != nil {
		return nil, models.NewStorageError("list session sets", err)
	}
	defer rows.Close()
	return scanSetEntries(rows)
}

// SetsForExercise retrieves all set entries for an exercise in ascending
// logged_at order, using the (exercise_id, logged_at) index.
func (d *DB) SetsForExercise(exerciseID uuid.UUID) ([]*models.SetEntry, error) {
	rows, err := d.db.Query(`
		SELECT id, session_id, exercise_id, weight, reps, set_number, logged_at
		FROM set_entries
		WHERE exercise_id = ?
		ORDER BY logged_at ASC, set_number ASC
	`, exerciseID.String())
	if err != nil {
		return nil, models.NewStorageError("list exercise sets", err)
	}
	defer rows.Close()
	return scanSetEntries(rows)
}

// LatestSetBefore returns the entry with the greatest logged_at strictly
// before the given instant, breaking timestamp ties on the highest set
// number. Returns (nil, nil) when the exercise has no prior entry — the
// caller must treat that as "first time", never as zero values.
func (d *DB) LatestSetBefore(exerciseID uuid.UUID, before time.Time) (*models.SetEntry, error) {
	row := d.db.QueryRow(`
		SELECT id, session_id, exercise_id, weight, reps, set_number, logged_at
		FROM set_entries
		WHERE exercise_id = ? AND logged_at < ?
		ORDER BY logged_at DESC, set_number DESC
		LIMIT 1
	`, exerciseID.String(), fmtTime(before))

	e, err := scanSetEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// getSetBySlot fetches the entry stored at (session, exercise, set number).
func (d *DB) getSetBySlot(sessionID, exerciseID uuid.UUID, setNumber int) (*models.SetEntry, error) {
	row := d.db.QueryRow(`
		SELECT id, session_id, exercise_id, weight, reps, set_number, logged_at
		FROM set_entries
		WHERE session_id = ? AND exercise_id = ? AND set_number = ?
	`, sessionID.String(), exerciseID.String(), setNumber)

	e, err := scanSetEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("set entry: %w", models.ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

// scanSetEntry scans a single row into a SetEntry.
func scanSetEntry(row rowScanner) (*models.SetEntry, error) {
	var e models.SetEntry
	var idStr, sessionIDStr, exerciseIDStr, loggedAt string

	err := row.Scan(&idStr, &sessionIDStr, &exerciseIDStr, &e.Weight, &e.Reps, &e.SetNumber, &loggedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, models.NewStorageError("scan set entry", err)
	}

	if e.ID, err = uuid.Parse(idStr); err != nil {
		return nil, models.NewStorageError("parse set entry id", err)
	}
	if e.SessionID, err = uuid.Parse(sessionIDStr); err != nil {
		return nil, models.NewStorageError("parse set entry session id", err)
	}
	if e.ExerciseID, err = uuid.Parse(exerciseIDStr); err != nil {
		return nil, models.NewStorageError("parse set entry exercise id", err)
	}
	if e.LoggedAt, err = parseTime(loggedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// scanSetEntries scans multiple rows into a slice of SetEntries.
func scanSetEntries(rows *sql.Rows) ([]*models.SetEntry, error) {
	var entries []*models.SetEntry
	for rows.Next() {
		e, err := scanSetEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
