// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dlbird

import (
	"os"
	"path/filepath"
	"strings"
)

// MarkerFileName is the per-dataset bookkeeping file recording where the
// payload actually resides.
const MarkerFileName = "dataset_path.txt"

// WriteMarker overwrites the marker file in dir with the resolved path or
// stream reference, terminated by a newline. Only called for successful
// results; a marker's existence implies its content was valid at write time.
func WriteMarker(dir, path string) error {
	marker := filepath.Join(dir, MarkerFileName)
	return os.WriteFile(marker, []byte(path+"\n"), 0o644)
}

// ReadMarker returns the recorded path from a dataset directory, or ok=false
// when no marker exists.
func ReadMarker(dir string) (path string, ok bool, err error) {
	b, err := os.ReadFile(filepath.Join(dir, MarkerFileName))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(string(b), "\n"), true, nil
}
