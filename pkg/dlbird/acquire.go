// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dlbird

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Acquire fetches one dataset and returns its terminal Result. All client
// failures are caught here and folded into a failed Result; nothing past
// this boundary observes raw client errors.
//
// Side effect: the destination subdirectory is created if absent before the
// client is invoked (idempotent).
func Acquire(ctx context.Context, desc Descriptor, clients Clients, cfg Settings, progress ProgressFunc) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "datasets"
	}

	emit := func(ev ProgressEvent) {
		if progress != nil {
			if ev.Time.IsZero() {
				ev.Time = time.Now().UTC()
			}
			ev.Dataset = desc.ID
			ev.Method = desc.Method.String()
			progress(ev)
		}
	}

	emit(ProgressEvent{Event: "acquire_start"})

	dir := desc.Dir(cfg.OutputDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return failed(desc, emit, "", err)
	}

	path, hint, err := dispatch(ctx, desc, clients, dir)
	if err != nil {
		return failed(desc, emit, hint, err)
	}

	res := Result{Dataset: desc.ID, Path: path, Status: StatusSucceeded}
	if werr := WriteMarker(dir, path); werr != nil {
		res.MarkerWarning = &MarkerWriteError{Dataset: desc.ID, Path: dir, Err: werr}
		emit(ProgressEvent{Event: "marker_warn", Message: res.MarkerWarning.Error()})
	}

	emit(ProgressEvent{Event: "acquire_done", Status: StatusSucceeded, Path: path})
	return res
}

// dispatch invokes the client matching the descriptor's acquisition method.
// The switch is exhaustive over the closed Method set.
func dispatch(ctx context.Context, desc Descriptor, clients Clients, destDir string) (path, hint string, err error) {
	switch desc.Method {
	case MethodDirect:
		if clients.Datasets == nil {
			return "", "", fmt.Errorf("no dataset client configured")
		}
		path, err = clients.Datasets.DownloadDataset(ctx, desc.Handle)
		if err != nil {
			return "", remediation(desc, err), err
		}
		return path, "", nil

	case MethodStreaming:
		if clients.Streams == nil {
			return "", "", fmt.Errorf("no streaming client configured")
		}
		refs := make([]string, 0, len(desc.StreamRefs))
		for _, ref := range desc.StreamRefs {
			resolved, rerr := clients.Streams.ResolveStream(ctx, ref)
			if rerr != nil {
				return "", "", rerr
			}
			refs = append(refs, resolved)
		}
		// One line per marker file: multiple split handles are comma-joined.
		return strings.Join(refs, ","), "", nil

	case MethodCompetition:
		if clients.Competitions == nil {
			return "", "", fmt.Errorf("no competition client configured")
		}
		if err = clients.Competitions.DownloadCompetition(ctx, desc.Handle, destDir); err != nil {
			return "", remediation(desc, err), err
		}
		return destDir, "", nil

	default:
		return "", "", fmt.Errorf("unknown acquisition method %d", desc.Method)
	}
}

// remediation maps an auth/permission failure to the action that fixes it.
func remediation(desc Descriptor, err error) string {
	switch {
	case errors.Is(err, ErrForbidden):
		if desc.Method == MethodCompetition {
			return fmt.Sprintf("accept the competition rules for %q on the Kaggle website", desc.Handle)
		}
		return fmt.Sprintf("accept the terms for %q on its hosting page", desc.Handle)
	case errors.Is(err, ErrUnauthorized):
		return "configure Kaggle API credentials (~/.kaggle/kaggle.json or KAGGLE_USERNAME/KAGGLE_KEY)"
	default:
		return ""
	}
}

func failed(desc Descriptor, emit func(ProgressEvent), hint string, err error) Result {
	aerr := &AcquisitionError{Dataset: desc.ID, Hint: hint, Err: err}
	emit(ProgressEvent{Event: "acquire_done", Status: StatusFailed, Message: aerr.Error()})
	return Result{Dataset: desc.ID, Status: StatusFailed, Err: aerr}
}

// Run acquires every selected dataset sequentially, in catalog order, and
// returns one Result per descriptor. A failure never stops the remaining
// datasets. The final "done" event carries the summary line.
func Run(ctx context.Context, selection []Descriptor, clients Clients, cfg Settings, progress ProgressFunc) []Result {
	results := make([]Result, 0, len(selection))
	for _, desc := range selection {
		results = append(results, Acquire(ctx, desc, clients, cfg, progress))
	}
	if progress != nil {
		progress(ProgressEvent{
			Time:    time.Now().UTC(),
			Event:   "done",
			Message: Summary(results),
		})
	}
	return results
}

// Succeeded reports whether every result in the run succeeded.
func Succeeded(results []Result) bool {
	for _, r := range results {
		if r.Status != StatusSucceeded {
			return false
		}
	}
	return true
}

// Summary formats the end-of-run summary: counts plus one line per failure.
func Summary(results []Result) string {
	var ok, bad int
	var b strings.Builder
	for _, r := range results {
		if r.Status == StatusSucceeded {
			ok++
		} else {
			bad++
		}
	}
	fmt.Fprintf(&b, "%d succeeded, %d failed", ok, bad)
	for _, r := range results {
		if r.Status == StatusFailed && r.Err != nil {
			fmt.Fprintf(&b, "\n  %s: %v", r.Dataset, r.Err)
		}
	}
	return b.String()
}
