// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dlbird

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeDatasets struct {
	path  string
	err   error
	calls int
}

func (f *fakeDatasets) DownloadDataset(ctx context.Context, handle string) (string, error) {
	f.calls++
	return f.path, f.err
}

type fakeStreams struct {
	err error
}

func (f *fakeStreams) ResolveStream(ctx context.Context, ref string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return ref, nil
}

type fakeCompetitions struct {
	err error
}

func (f *fakeCompetitions) DownloadCompetition(ctx context.Context, slug, destDir string) error {
	return f.err
}

func mustLookup(t *testing.T, id string) Descriptor {
	t.Helper()
	d, ok := Lookup(id)
	if !ok {
		t.Fatalf("dataset %s not in catalog", id)
	}
	return d
}

func TestAcquire(t *testing.T) {
	ctx := context.Background()

	t.Run("success writes exactly one marker with trailing newline", func(t *testing.T) {
		out := t.TempDir()
		clients := Clients{Datasets: &fakeDatasets{path: "/cache/cub"}}

		res := Acquire(ctx, mustLookup(t, "cub200"), clients, Settings{OutputDir: out}, nil)
		if res.Status != StatusSucceeded {
			t.Fatalf("expected success, got %v (%v)", res.Status, res.Err)
		}
		if res.Path != "/cache/cub" {
			t.Errorf("expected path /cache/cub, got %q", res.Path)
		}

		b, err := os.ReadFile(filepath.Join(out, "image", "cub200", MarkerFileName))
		if err != nil {
			t.Fatalf("marker not written: %v", err)
		}
		if string(b) != "/cache/cub\n" {
			t.Errorf("unexpected marker content %q", string(b))
		}
	})

	t.Run("failure writes no marker", func(t *testing.T) {
		out := t.TempDir()
		clients := Clients{Datasets: &fakeDatasets{err: errors.New("network error")}}

		res := Acquire(ctx, mustLookup(t, "cub200"), clients, Settings{OutputDir: out}, nil)
		if res.Status != StatusFailed {
			t.Fatalf("expected failure, got %v", res.Status)
		}
		var aerr *AcquisitionError
		if !errors.As(res.Err, &aerr) {
			t.Fatalf("expected *AcquisitionError, got %T", res.Err)
		}
		if aerr.Dataset != "cub200" {
			t.Errorf("failure attributed to %q, want cub200", aerr.Dataset)
		}

		if _, err := os.Stat(filepath.Join(out, "image", "cub200", MarkerFileName)); !os.IsNotExist(err) {
			t.Errorf("marker must not exist after failure (stat err: %v)", err)
		}
	})

	t.Run("streaming records comma-joined refs, not a filesystem path", func(t *testing.T) {
		out := t.TempDir()
		clients := Clients{Streams: &fakeStreams{}}

		res := Acquire(ctx, mustLookup(t, "nabirds"), clients, Settings{OutputDir: out}, nil)
		if res.Status != StatusSucceeded {
			t.Fatalf("expected success, got %v (%v)", res.Status, res.Err)
		}
		want := "hub://activeloop/nabirds-dataset-train,hub://activeloop/nabirds-dataset-val"
		if res.Path != want {
			t.Errorf("expected %q, got %q", want, res.Path)
		}
	})

	t.Run("competition rules failure names the remediation", func(t *testing.T) {
		out := t.TempDir()
		clients := Clients{Competitions: &fakeCompetitions{
			err: fmt.Errorf("kaggle API 403 Forbidden: %w", ErrForbidden),
		}}

		res := Acquire(ctx, mustLookup(t, "birdclef2025"), clients, Settings{OutputDir: out}, nil)
		if res.Status != StatusFailed {
			t.Fatalf("expected failure, got %v", res.Status)
		}
		if !strings.Contains(res.Err.Error(), "accept the competition rules") {
			t.Errorf("failure message %q does not name the remediation", res.Err.Error())
		}
		if !strings.Contains(res.Err.Error(), "birdclef2025") {
			t.Errorf("failure message %q does not name the dataset", res.Err.Error())
		}
	})

	t.Run("missing credentials failure names the remediation", func(t *testing.T) {
		out := t.TempDir()
		clients := Clients{Competitions: &fakeCompetitions{
			err: fmt.Errorf("competition birdclef-2025: %w", ErrUnauthorized),
		}}

		res := Acquire(ctx, mustLookup(t, "birdclef2025"), clients, Settings{OutputDir: out}, nil)
		if !strings.Contains(res.Err.Error(), "credentials") {
			t.Errorf("failure message %q does not mention credentials", res.Err.Error())
		}
	})

	t.Run("marker write failure is a warning, not a failed acquisition", func(t *testing.T) {
		out := t.TempDir()
		desc := mustLookup(t, "cub200")

		// A directory where the marker file should go forces the write to fail
		// regardless of the user running the tests.
		if err := os.MkdirAll(filepath.Join(desc.Dir(out), MarkerFileName), 0o755); err != nil {
			t.Fatal(err)
		}

		clients := Clients{Datasets: &fakeDatasets{path: "/cache/cub"}}
		res := Acquire(ctx, desc, clients, Settings{OutputDir: out}, nil)
		if res.Status != StatusSucceeded {
			t.Fatalf("expected success despite marker failure, got %v (%v)", res.Status, res.Err)
		}
		if res.MarkerWarning == nil {
			t.Fatal("expected a marker warning")
		}
		var werr *MarkerWriteError
		if !errors.As(res.MarkerWarning, &werr) {
			t.Errorf("expected *MarkerWriteError, got %T", res.MarkerWarning)
		}
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("partial failure isolation", func(t *testing.T) {
		out := t.TempDir()
		clients := Clients{
			Datasets: &fakeDatasets{err: errors.New("network error")},
			Streams:  &fakeStreams{},
		}

		sel, err := Resolve(false, []string{"nabirds", "cub200"})
		if err != nil {
			t.Fatal(err)
		}

		results := Run(ctx, sel, clients, Settings{OutputDir: out}, nil)
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Dataset != "cub200" || results[0].Status != StatusFailed {
			t.Errorf("result 0: expected cub200 failed, got %s %s", results[0].Dataset, results[0].Status)
		}
		if results[1].Dataset != "nabirds" || results[1].Status != StatusSucceeded {
			t.Errorf("result 1: expected nabirds succeeded, got %s %s", results[1].Dataset, results[1].Status)
		}

		if _, err := os.Stat(filepath.Join(out, "image", "cub200", MarkerFileName)); !os.IsNotExist(err) {
			t.Error("cub200 marker must not exist")
		}
		if _, err := os.Stat(filepath.Join(out, "image", "nabirds", MarkerFileName)); err != nil {
			t.Errorf("nabirds marker missing: %v", err)
		}

		if Succeeded(results) {
			t.Error("run with a failure must not count as succeeded")
		}
	})

	t.Run("re-run overwrites markers idempotently and keeps prior successes on failure", func(t *testing.T) {
		out := t.TempDir()
		ds := &fakeDatasets{path: "/cache/cub"}
		clients := Clients{Datasets: ds}

		sel, _ := Resolve(false, []string{"cub200"})

		first := Run(ctx, sel, clients, Settings{OutputDir: out}, nil)
		markerPath := filepath.Join(out, "image", "cub200", MarkerFileName)
		b1, err := os.ReadFile(markerPath)
		if err != nil {
			t.Fatal(err)
		}

		second := Run(ctx, sel, clients, Settings{OutputDir: out}, nil)
		b2, err := os.ReadFile(markerPath)
		if err != nil {
			t.Fatal(err)
		}
		if string(b1) != string(b2) {
			t.Errorf("marker changed across identical runs: %q vs %q", b1, b2)
		}
		if first[0].Path != second[0].Path {
			t.Errorf("paths differ across runs: %q vs %q", first[0].Path, second[0].Path)
		}

		// A later failing run leaves the earlier marker untouched.
		ds.err = errors.New("network error")
		Run(ctx, sel, clients, Settings{OutputDir: out}, nil)
		b3, err := os.ReadFile(markerPath)
		if err != nil {
			t.Fatalf("prior marker destroyed by failing run: %v", err)
		}
		if string(b3) != string(b1) {
			t.Errorf("failing run altered the marker: %q vs %q", b3, b1)
		}
	})

	t.Run("summary counts and failure details", func(t *testing.T) {
		results := []Result{
			{Dataset: "cub200", Status: StatusSucceeded, Path: "/x"},
			{Dataset: "birdclef2025", Status: StatusFailed, Err: &AcquisitionError{Dataset: "birdclef2025", Err: errors.New("boom")}},
		}
		s := Summary(results)
		if !strings.Contains(s, "1 succeeded, 1 failed") {
			t.Errorf("summary %q missing counts", s)
		}
		if !strings.Contains(s, "birdclef2025") || !strings.Contains(s, "boom") {
			t.Errorf("summary %q missing failure detail", s)
		}
	})

	t.Run("done event carries the summary", func(t *testing.T) {
		out := t.TempDir()
		clients := Clients{Datasets: &fakeDatasets{path: "/cache/x"}}
		sel, _ := Resolve(false, []string{"cub200"})

		var events []ProgressEvent
		Run(ctx, sel, clients, Settings{OutputDir: out}, func(ev ProgressEvent) {
			events = append(events, ev)
		})

		last := events[len(events)-1]
		if last.Event != "done" {
			t.Fatalf("last event %q, want done", last.Event)
		}
		if !strings.Contains(last.Message, "1 succeeded, 0 failed") {
			t.Errorf("done message %q missing summary", last.Message)
		}
	})
}
