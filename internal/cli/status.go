// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GiowGiow/dlbird/internal/history"
	"github.com/GiowGiow/dlbird/pkg/dlbird"
)

// newStatusCmd reports per-dataset state from the marker files and the run
// history database, without touching the network.
func newStatusCmd(ro *RootOpts) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which datasets have been acquired",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(ro)
			if err != nil {
				return err
			}
			dir := output
			if dir == "" {
				dir = v.GetString("output")
			}
			if dir == "" {
				dir = "datasets"
			}

			latest := loadLatest(dir)

			tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATASET\tCATEGORY\tMETHOD\tSTATE\tLOCATION")
			for _, d := range dlbird.Catalog() {
				path, ok, err := dlbird.ReadMarker(d.Dir(dir))
				state := "missing"
				location := "-"
				switch {
				case err != nil:
					state = "unreadable"
				case ok:
					state = "acquired"
					location = path
				case latest[d.ID].Status == string(dlbird.StatusFailed):
					state = "failed"
					location = latest[d.ID].Error
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Category, d.Method, state, location)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Directory holding the dataset marker files (default \"datasets\")")

	return cmd
}

// loadLatest reads the run history; a missing or broken DB degrades to
// marker-only status.
func loadLatest(dir string) map[string]history.Entry {
	dbPath := filepath.Join(dir, "runs.db")
	if _, err := os.Stat(dbPath); err != nil {
		return nil
	}
	store, err := history.Open(dbPath)
	if err != nil {
		return nil
	}
	defer store.Close()

	latest, err := store.Latest()
	if err != nil {
		return nil
	}
	return latest
}
