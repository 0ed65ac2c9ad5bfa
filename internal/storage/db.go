// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/josemarichal/gym-tracker/internal/models"
)

// timeFormat is a fixed-width RFC 3339 layout with nanoseconds. All
// timestamps are stored in UTC, so lexicographic order of the stored text
// equals chronological order and the (exercise_id, logged_at) index can
// answer "latest before T" with a bounded reverse scan.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps the SQLite database connection. It is the single-writer storage
// backend owning the on-disk file.
type DB struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates a SQLite database at the given path, applies
// pragmas, and brings the schema up to date. It fails if an existing
// database has a shape that cannot be migrated safely.
func Open(dbPath string) (*DB, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, models.NewStorageError("open database", err)
	}

	// Set file permissions
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := &DB{db: db, dbPath: dbPath}

	if err := d.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Schema manager runs once here, before any repository operation.
	if err := d.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

// OpenDefault opens the database at the default XDG data path.
func OpenDefault() (*DB, error) {
	return Open(DefaultDBPath())
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "gym-tracker")
}

// DefaultDBPath returns the default database path following XDG spec.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "gym.db")
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// configurePragmas sets up SQLite for durability and referential integrity.
func (d *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return models.NewStorageError(pragma, err)
		}
	}
	return nil
}

// withTx runs fn inside a single transaction. The whole batch commits or
// none of it does; partial writes never become visible.
func (d *DB) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return models.NewStorageError("begin transaction", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return models.NewStorageError("commit transaction", err)
	}
	return nil
}

// fmtTime encodes a timestamp for storage.
func fmtTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseTime decodes a stored timestamp. Falls back to plain RFC 3339 for
// rows written by older versions.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
