// ABOUTME: Schema migration manager for the workout engine database.
// ABOUTME: Applies versioned additive migrations; re-applying is a no-op.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/josemarichal/gym-tracker/internal/models"
)

// ErrIncompatibleSchema is returned when an existing table has a shape the
// migration manager cannot bring up to date. The process cannot continue
// against such a database.
var ErrIncompatibleSchema = errors.New("incompatible database schema")

// migration is one additive schema step. apply must be idempotent because a
// crash between apply and the version record re-runs it on next startup.
type migration struct {
	version int
	name    string
	apply   func(tx *sql.Tx) error
}

var migrations = []migration{
	{
		version: 1,
		name:    "base schema",
		apply: func(tx *sql.Tx) error {
			_, err := tx.Exec(baseSchema)
			return err
		},
	},
	{
		version: 2,
		name:    "exercise archived flag",
		apply: func(tx *sql.Tx) error {
			has, err := tableHasColumn(tx, "exercises", "archived")
			if err != nil || has {
				return err
			}
			_, err = tx.Exec("ALTER TABLE exercises ADD COLUMN archived INTEGER NOT NULL DEFAULT 0")
			return err
		},
	},
}

// migrate brings the database schema up to the latest version. It runs once
// at Open, before any repository operation touches storage.
func (d *DB) migrate() error {
	if err := d.verifySchema(); err != nil {
		return err
	}

	_, err := d.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`)
	if err != nil {
		return models.NewStorageError("create schema_migrations", err)
	}

	applied, err := d.appliedVersions()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		err := d.withTx(func(tx *sql.Tx) error {
			if err := m.apply(tx); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				m.version, fmtTime(time.Now()),
			)
			return err
		})
		if err != nil {
			return models.NewStorageError("apply migrations", err)
		}
	}

	return nil
}

// appliedVersions returns the set of already-applied migration versions.
func (d *DB) appliedVersions() (map[int]bool, error) {
	rows, err := d.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, models.NewStorageError("read schema_migrations", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, models.NewStorageError("scan schema_migrations", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// verifySchema checks every entity table that already exists for the columns
// the migrations assume. A table created by something other than this engine
// and missing required columns fails fatally rather than being guessed at.
func (d *DB) verifySchema() error {
	for table, cols := range requiredColumns {
		exists, err := d.tableExists(table)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		for _, col := range cols {
			has, err := d.columnExists(table, col)
			if err != nil {
				return err
			}
			if !has {
				return fmt.Errorf("table %s missing column %s: %w", table, col, ErrIncompatibleSchema)
			}
		}
	}
	return nil
}

func (d *DB) tableExists(name string) (bool, error) {
	var n int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&n)
	if err != nil {
		return false, models.NewStorageError("check table "+name, err)
	}
	return n > 0, nil
}

func (d *DB) columnExists(table, column string) (bool, error) {
	rows, err := d.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, models.NewStorageError("table_info "+table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return false, models.NewStorageError("scan table_info "+table, err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// tableHasColumn is the in-transaction variant used by migrations.
func tableHasColumn(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
