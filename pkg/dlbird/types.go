// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dlbird

import (
	"context"
	"path/filepath"
	"time"
)

// Category classifies a dataset by payload type.
type Category string

const (
	CategoryImage Category = "image"
	CategoryAudio Category = "audio"
)

// Method is the closed set of acquisition methods. Adding a method means
// adding a case to Acquire's dispatch and nothing else.
type Method int

const (
	// MethodDirect downloads the dataset archive through the dataset-hub
	// client into its cache and records the resulting local path.
	MethodDirect Method = iota

	// MethodStreaming resolves lazy remote handles without bulk transfer
	// and records the handle reference string instead of a local path.
	MethodStreaming

	// MethodCompetition downloads an authenticated competition bundle into
	// the destination directory. Requires Kaggle credentials and accepted
	// competition rules.
	MethodCompetition
)

// String returns the method name used in logs and status output.
func (m Method) String() string {
	switch m {
	case MethodDirect:
		return "direct"
	case MethodStreaming:
		return "streaming"
	case MethodCompetition:
		return "competition"
	default:
		return "unknown"
	}
}

// Descriptor is the static metadata record for one supported dataset.
//
// Descriptors are defined once in the catalog and never mutated; the catalog
// definition order is the processing order for every run.
type Descriptor struct {
	// ID is the stable dataset identifier, also the CLI flag name.
	ID string

	// Name is the human-readable dataset name used in status lines.
	Name string

	// Category is "image" or "audio" and doubles as the first path segment
	// under the output directory.
	Category Category

	// Method selects which client acquires this dataset.
	Method Method

	// Handle is the remote identifier for direct and competition datasets
	// (e.g. "wenewone/cub2002011", "birdclef-2025").
	Handle string

	// StreamRefs holds the lazy handle references for streaming datasets
	// (e.g. train and validation splits). Empty for other methods.
	StreamRefs []string

	// SizeHint is a human-readable size estimate shown in help and status.
	SizeHint string
}

// Dir returns the dataset's destination subdirectory under outputDir.
// Every descriptor maps to exactly one such directory.
func (d Descriptor) Dir(outputDir string) string {
	return filepath.Join(outputDir, string(d.Category), d.ID)
}

// Settings configures a run. The zero value is usable; empty fields fall
// back to defaults in Run.
type Settings struct {
	// OutputDir is the directory for marker/info files, independent of the
	// cache directory where payload bytes live. Defaults to "datasets".
	OutputDir string

	// CacheDir overrides the dataset-hub client's cache directory. Empty
	// means the client's own default (or its environment variable, which is
	// resolved by the CLI layer, never read here).
	CacheDir string
}

// Status is the terminal state of one acquisition.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Result is the outcome of acquiring one dataset.
type Result struct {
	// Dataset is the descriptor ID.
	Dataset string `json:"dataset"`

	// Path is the resolved local path for downloaded datasets, or the
	// handle reference string for streaming datasets. Empty on failure.
	Path string `json:"path,omitempty"`

	// Status is "succeeded" or "failed".
	Status Status `json:"status"`

	// Err holds the acquisition failure, always an *AcquisitionError.
	// Nil on success.
	Err error `json:"-"`

	// MarkerWarning is set when the dataset was acquired but the marker
	// file could not be written. The acquisition still counts as a success;
	// only the bookkeeping failed.
	MarkerWarning error `json:"-"`
}

// ProgressEvent is emitted as a run advances.
//
// Event values:
//   - "acquire_start": acquisition of a dataset has begun
//   - "acquire_done": a dataset reached a terminal state (check Status)
//   - "marker_warn": the marker file could not be written after a success
//   - "done": the whole run finished; Message carries the summary line
type ProgressEvent struct {
	Time    time.Time `json:"time"`
	Event   string    `json:"event"`
	Dataset string    `json:"dataset,omitempty"`
	Method  string    `json:"method,omitempty"`
	Status  Status    `json:"status,omitempty"`
	Path    string    `json:"path,omitempty"`
	Message string    `json:"message,omitempty"`
}

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(ProgressEvent)

// DatasetClient downloads a public dataset by its remote handle and returns
// the local filesystem path where the payload ended up (typically inside the
// client's cache directory).
type DatasetClient interface {
	DownloadDataset(ctx context.Context, handle string) (string, error)
}

// StreamClient resolves a lazy dataset handle without transferring the
// payload. The returned string is the canonical reference recorded in the
// marker file.
type StreamClient interface {
	ResolveStream(ctx context.Context, ref string) (string, error)
}

// CompetitionClient downloads an authenticated competition bundle into
// destDir. It fails when credentials are missing or the competition rules
// have not been accepted.
type CompetitionClient interface {
	DownloadCompetition(ctx context.Context, slug, destDir string) error
}

// Clients bundles the external acquisition clients consumed by Acquire.
type Clients struct {
	Datasets     DatasetClient
	Streams      StreamClient
	Competitions CompetitionClient
}
