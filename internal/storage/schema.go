// ABOUTME: SQLite schema definition for the workout engine.
// ABOUTME: Defines tables for routines, exercises, associations, sessions, set entries.
package storage

// baseSchema is migration version 1: the full entity set with the indexes
// the performance queries rely on.
const baseSchema = `
	CREATE TABLE IF NOT EXISTS routines (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS associations (
		routine_id TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (routine_id, exercise_id),
		FOREIGN KEY (routine_id) REFERENCES routines(id) ON DELETE CASCADE,
		FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		routine_id TEXT,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		FOREIGN KEY (routine_id) REFERENCES routines(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS set_entries (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		weight REAL NOT NULL,
		reps INTEGER NOT NULL,
		set_number INTEGER NOT NULL,
		logged_at TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
		FOREIGN KEY (exercise_id) REFERENCES exercises(id)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_routines_name
		ON routines(name COLLATE NOCASE);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_exercises_name
		ON exercises(name COLLATE NOCASE);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_set_entries_slot
		ON set_entries(session_id, exercise_id, set_number);
	CREATE INDEX IF NOT EXISTS idx_set_entries_exercise_logged
		ON set_entries(exercise_id, logged_at);
	CREATE INDEX IF NOT EXISTS idx_sessions_started
		ON sessions(started_at DESC);
`

// requiredColumns lists, per table, the columns an existing database must
// already carry for a migration to be applied safely. Columns that later
// migrations add (e.g. exercises.archived) are deliberately absent.
var requiredColumns = map[string][]string{
	"routines":     {"id", "name", "created_at"},
	"exercises":    {"id", "name", "created_at"},
	"associations": {"routine_id", "exercise_id", "position"},
	"sessions":     {"id", "routine_id", "started_at", "finished_at"},
	"set_entries":  {"id", "session_id", "exercise_id", "weight", "reps", "set_number", "logged_at"},
}
