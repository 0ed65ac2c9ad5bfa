// ABOUTME: Tests for the schema migration manager.
// ABOUTME: Verifies idempotent migrations, additive upgrades, and shape checks.
package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestMigrateFreshDatabase(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for table := range requiredColumns {
		exists, err := db.tableExists(table)
		if err != nil {
			t.Fatalf("tableExists(%s) failed: %v", table, err)
		}
		if !exists {
			t.Errorf("Expected table %s to be created", table)
		}
	}

	// Migration 2 adds the archived column
	has, err := db.columnExists("exercises", "archived")
	if err != nil {
		t.Fatalf("columnExists failed: %v", err)
	}
	if !has {
		t.Error("Expected exercises.archived after migrations")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "gym.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("First open failed: %v", err)
	}
	if _, err := db.CreateExercise("Bench Press"); err != nil {
		t.Fatalf("CreateExercise failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening re-runs the migration manager against applied versions
	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Second open failed: %v", err)
	}
	defer db.Close()

	exercises, err := db.ListExercises(true)
	if err != nil {
		t.Fatalf("ListExercises failed: %v", err)
	}
	if len(exercises) != 1 {
		t.Errorf("Expected data to survive reopen, got %d exercises", len(exercises))
	}

	applied, err := db.appliedVersions()
	if err != nil {
		t.Fatalf("appliedVersions failed: %v", err)
	}
	if len(applied) != len(migrations) {
		t.Errorf("Expected %d applied migrations, got %d", len(migrations), len(applied))
	}
}

func TestMigrateUpgradesV1Database(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "gym.db")

	// Simulate a database created before the archived column existed
	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	if _, err := raw.Exec(`CREATE TABLE exercises (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`); err != nil {
		t.Fatalf("create v1 table: %v", err)
	}
	if _, err := raw.Exec(
		"INSERT INTO exercises (id, name, created_at) VALUES (?, ?, ?)",
		"6b1c0c24-9fa8-4f0e-9c3a-0f8f16a1d001", "Bench Press", "2024-01-02T10:00:00.000000000Z",
	); err != nil {
		t.Fatalf("seed v1 row: %v", err)
	}
	if err := raw.Close(); err != nil {
		t.Fatalf("close raw: %v", err)
	}

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open against v1 database failed: %v", err)
	}
	defer db.Close()

	exercises, err := db.ListExercises(false)
	if err != nil {
		t.Fatalf("ListExercises failed: %v", err)
	}
	if len(exercises) != 1 || exercises[0].Name != "Bench Press" {
		t.Fatalf("Expected seeded exercise to survive upgrade, got %+v", exercises)
	}
	if exercises[0].Archived {
		t.Error("Upgraded rows should default to not archived")
	}
}

func TestMigrateRejectsIncompatibleShape(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "gym.db")

	// A sessions table missing started_at cannot be migrated safely
	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	if _, err := raw.Exec("CREATE TABLE sessions (id TEXT PRIMARY KEY, note TEXT)"); err != nil {
		t.Fatalf("create bad table: %v", err)
	}
	if err := raw.Close(); err != nil {
		t.Fatalf("close raw: %v", err)
	}

	_, err = Open(dbPath)
	if !errors.Is(err, ErrIncompatibleSchema) {
		t.Errorf("Expected ErrIncompatibleSchema, got %v", err)
	}
}
