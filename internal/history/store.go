// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

// Package history persists acquisition runs in a small SQLite database under
// the output directory, so `dlbird status` can report when each dataset was
// last acquired and with what outcome.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/GiowGiow/dlbird/pkg/dlbird"
)

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the history database at path, migrating the schema
// as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	succeeded INTEGER NOT NULL,
	failed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL,
	dataset TEXT NOT NULL,
	status TEXT NOT NULL,
	path TEXT,
	error TEXT,
	recorded_at TEXT NOT NULL
);
`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func iso(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// RecordRun stores one finished run and its per-dataset results, returning
// the run ID.
func (s *Store) RecordRun(started, finished time.Time, results []dlbird.Result) (string, error) {
	runID := uuid.NewString()

	var ok, bad int
	for _, r := range results {
		if r.Status == dlbird.StatusSucceeded {
			ok++
		} else {
			bad++
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs(run_id, started_at, finished_at, succeeded, failed) VALUES (?, ?, ?, ?, ?)`,
		runID, iso(started), iso(finished), ok, bad,
	); err != nil {
		return "", err
	}

	for _, r := range results {
		var errText string
		if r.Err != nil {
			errText = r.Err.Error()
		}
		if _, err := tx.Exec(
			`INSERT INTO results(run_id, dataset, status, path, error, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, r.Dataset, string(r.Status), r.Path, errText, iso(finished),
		); err != nil {
			return "", err
		}
	}

	return runID, tx.Commit()
}

// Entry is the most recent recorded outcome for one dataset.
type Entry struct {
	Dataset    string
	Status     string
	Path       string
	Error      string
	RecordedAt string
}

// Latest returns the newest recorded result per dataset.
func (s *Store) Latest() (map[string]Entry, error) {
	rows, err := s.db.Query(`
SELECT dataset, status, path, error, recorded_at
FROM results
ORDER BY recorded_at ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	latest := make(map[string]Entry)
	for rows.Next() {
		var e Entry
		var path, errText sql.NullString
		if err := rows.Scan(&e.Dataset, &e.Status, &path, &errText, &e.RecordedAt); err != nil {
			return nil, err
		}
		e.Path = path.String
		e.Error = errText.String
		latest[e.Dataset] = e // later rows overwrite older ones
	}
	return latest, rows.Err()
}
