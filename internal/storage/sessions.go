// ABOUTME: Session CRUD operations for SQLite storage.
// ABOUTME: Sessions own their set entries; deleting a session cascades.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
)

// StartSession creates a session started now. routineID may be nil for an
// ad hoc workout; when given, the routine must exist.
func (d *DB) StartSession(routineID *uuid.UUID) (*models.Session, error) {
	if routineID != nil {
		if _, err := d.GetRoutine(*routineID); err != nil {
			return nil, err
		}
	}

	s := models.NewSession(routineID)
	var routineIDStr any
	if routineID != nil {
		routineIDStr = routineID.String()
	}
	_, err := d.db.Exec(
		"INSERT INTO sessions (id, routine_id, started_at, finished_at) VALUES (?, ?, ?, NULL)",
		s.ID.String(), routineIDStr, fmtTime(s.StartedAt),
	)
	if err != nil {
		return nil, models.NewStorageError("start session", err)
	}
	return s, nil
}

// GetSession retrieves a session by ID, including its set entries.
func (d *DB) GetSession(id uuid.UUID) (*models.Session, error) {
	row := d.db.QueryRow(
		"SELECT id, routine_id, started_at, finished_at FROM sessions WHERE id = ?",
		id.String(),
	)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}

	sets, err := d.SetsForSession(s.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range sets {
		s.Sets = append(s.Sets, *e)
	}
	return s, nil
}

// ListSessions retrieves sessions sorted by start time descending (most
// recent first), without their set entries. limit <= 0 means no limit.
func (d *DB) ListSessions(limit int) ([]*models.Session, error) {
	query := "SELECT id, routine_id, started_at, finished_at FROM sessions ORDER BY started_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, models.NewStorageError("list sessions", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// FinishSession marks the session finished now. Finishing twice fails with
// ErrAlreadyFinished and leaves the original timestamp untouched.
func (d *DB) FinishSession(id uuid.UUID) (*models.Session, error) {
	s, err := d.GetSession(id)
	if err != nil {
		return nil, err
	}
	if s.Finished() {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrAlreadyFinished)
	}

	now := time.Now()
	if now.Before(s.StartedAt) {
		now = s.StartedAt // clock went backwards; keep finished_at >= started_at
	}
	_, err = d.db.Exec(
		"UPDATE sessions SET finished_at = ? WHERE id = ? AND finished_at IS NULL",
		fmtTime(now), id.String(),
	)
	if err != nil {
		return nil, models.NewStorageError("finish session", err)
	}

	s.FinishedAt = &now
	return s, nil
}

// DeleteSession removes a session and all its set entries.
func (d *DB) DeleteSession(id uuid.UUID) error {
	// CASCADE is enabled, so deleting the session deletes its set entries
	result, err := d.db.Exec("DELETE FROM sessions WHERE id = ?", id.String())
	if err != nil {
		return models.NewStorageError("delete session", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.NewStorageError("delete session", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// scanSession scans a single row into a Session (without set entries).
func scanSession(row rowScanner) (*models.Session, error) {
	var s models.Session
	var idStr, startedAt string
	var routineID, finishedAt sql.NullString

	if err := row.Scan(&idStr, &routineID, &startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, models.NewStorageError("scan session", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, models.NewStorageError("parse session id", err)
	}
	s.ID = id
	if s.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if routineID.Valid {
		rid, err := uuid.Parse(routineID.String)
		if err != nil {
			return nil, models.NewStorageError("parse session routine id", err)
		}
		s.RoutineID = &rid
	}
	if finishedAt.Valid {
		t, err := parseTime(finishedAt.String)
		if err != nil {
			return nil, err
		}
		s.FinishedAt = &t
	}
	return &s, nil
}
