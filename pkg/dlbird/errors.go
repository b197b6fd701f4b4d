// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dlbird

import (
	"errors"
	"fmt"
)

// ErrNoSelection is returned by Resolve when no dataset flag and no "all"
// flag was given. It is the only error that escapes to the CLI layer as a
// usage error; everything else is folded into per-dataset Results.
var ErrNoSelection = errors.New("no dataset selected: pick at least one dataset flag or --all")

// Sentinels the acquisition clients map their transport failures onto.
// Acquire uses these to decide which remediation hint a failure earns.
var (
	// ErrUnauthorized means credentials are missing or invalid.
	ErrUnauthorized = errors.New("unauthorized: credentials missing or invalid")

	// ErrForbidden means the account lacks access, typically because the
	// competition rules have not been accepted.
	ErrForbidden = errors.New("forbidden: access not granted")

	// ErrNotFound means the remote dataset or competition does not exist.
	ErrNotFound = errors.New("dataset not found")
)

// AcquisitionError wraps a client failure with the dataset it belongs to and
// an optional remediation hint. It never aborts the run; it travels inside
// the failed Result.
type AcquisitionError struct {
	// Dataset is the descriptor ID the failure is attributed to.
	Dataset string

	// Hint tells the user how to fix the failure (e.g. accept competition
	// rules, configure credentials). Empty when there is nothing actionable.
	Hint string

	// Err is the underlying client error.
	Err error
}

func (e *AcquisitionError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("acquire %s: %v (%s)", e.Dataset, e.Err, e.Hint)
	}
	return fmt.Sprintf("acquire %s: %v", e.Dataset, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// MarkerWriteError reports that the bookkeeping marker file could not be
// written after a successful acquisition. It is a warning: the payload was
// fetched, only the marker is missing.
type MarkerWriteError struct {
	Dataset string
	Path    string
	Err     error
}

func (e *MarkerWriteError) Error() string {
	return fmt.Sprintf("write marker for %s at %s: %v", e.Dataset, e.Path, e.Err)
}

func (e *MarkerWriteError) Unwrap() error {
	return e.Err
}
