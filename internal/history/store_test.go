// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/GiowGiow/dlbird/pkg/dlbird"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordRun(t *testing.T) {
	store := openTestStore(t)

	started := time.Now().Add(-time.Minute)
	finished := time.Now()
	results := []dlbird.Result{
		{Dataset: "cub200", Status: dlbird.StatusSucceeded, Path: "/cache/cub"},
		{Dataset: "birdclef2025", Status: dlbird.StatusFailed,
			Err: &dlbird.AcquisitionError{Dataset: "birdclef2025", Err: errors.New("rules not accepted")}},
	}

	runID, err := store.RecordRun(started, finished, results)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if runID == "" {
		t.Error("expected a run ID")
	}

	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if e := latest["cub200"]; e.Status != string(dlbird.StatusSucceeded) || e.Path != "/cache/cub" {
		t.Errorf("unexpected cub200 entry: %+v", e)
	}
	if e := latest["birdclef2025"]; e.Status != string(dlbird.StatusFailed) || e.Error == "" {
		t.Errorf("unexpected birdclef2025 entry: %+v", e)
	}
}

func TestLatestKeepsNewestPerDataset(t *testing.T) {
	store := openTestStore(t)

	t0 := time.Now().Add(-2 * time.Hour)
	if _, err := store.RecordRun(t0, t0, []dlbird.Result{
		{Dataset: "cub200", Status: dlbird.StatusFailed, Err: errors.New("network error")},
	}); err != nil {
		t.Fatal(err)
	}

	t1 := time.Now()
	if _, err := store.RecordRun(t1, t1, []dlbird.Result{
		{Dataset: "cub200", Status: dlbird.StatusSucceeded, Path: "/cache/cub"},
	}); err != nil {
		t.Fatal(err)
	}

	latest, err := store.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if latest["cub200"].Status != string(dlbird.StatusSucceeded) {
		t.Errorf("expected newest (succeeded) entry, got %+v", latest["cub200"])
	}
}
