// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GiowGiow/dlbird/internal/history"
	"github.com/GiowGiow/dlbird/internal/kaggle"
	"github.com/GiowGiow/dlbird/internal/stream"
	"github.com/GiowGiow/dlbird/pkg/dlbird"
)

// downloadOpts collects the dataset selection and directory flags.
type downloadOpts struct {
	all      bool
	selected map[string]*bool // flag value per catalog dataset ID
	output   string
	cache    string
}

// addDownloadFlags registers the selection flags on the root command, one
// boolean per catalog dataset plus --all, --output and --cache.
func addDownloadFlags(cmd *cobra.Command, dl *downloadOpts) {
	dl.selected = make(map[string]*bool)

	cmd.Flags().BoolVar(&dl.all, "all", false, "Download all datasets")
	for _, d := range dlbird.Catalog() {
		v := new(bool)
		dl.selected[d.ID] = v
		cmd.Flags().BoolVar(v, d.ID, false,
			fmt.Sprintf("Download %s (%s, %s, %s)", d.Name, d.Category, d.Method, d.SizeHint))
	}
	cmd.Flags().StringVarP(&dl.output, "output", "o", "", "Directory for dataset marker files (default \"datasets\")")
	cmd.Flags().StringVar(&dl.cache, "cache", "", "Cache directory for downloaded payloads (also via KAGGLEHUB_CACHE)")
}

// runDownload is the main entrypoint: resolve the selection, wire the
// acquisition clients, run the orchestrator and record the outcome.
func runDownload(cmd *cobra.Command, ro *RootOpts, dl *downloadOpts) error {
	var picked []string
	for id, v := range dl.selected {
		if *v {
			picked = append(picked, id)
		}
	}

	// Selection is resolved before anything touches the filesystem.
	selection, err := dlbird.Resolve(dl.all, picked)
	if err != nil {
		if errors.Is(err, dlbird.ErrNoSelection) {
			_ = cmd.Help()
		}
		return err
	}

	v, err := loadConfig(ro)
	if err != nil {
		return err
	}
	cfg := finalizeSettings(cmd, dl, v)

	logger, err := newLogger(ro)
	if err != nil {
		return err
	}
	defer logger.Sync()

	creds := kaggle.LoadCredentials()
	reportEnvironment(ro, cfg, creds)

	renderer := newRenderer(ro, os.Stdout)
	defer renderer.Close()

	kc := &kaggle.Client{
		Credentials: creds,
		CacheDir:    cfg.CacheDir,
		Progress:    renderer.ByteProgress(),
	}
	clients := dlbird.Clients{
		Datasets:     kc,
		Streams:      &stream.Resolver{},
		Competitions: kc,
	}

	logger.Debug("starting run",
		zap.Int("selected", len(selection)),
		zap.String("output", cfg.OutputDir),
		zap.String("cache", cfg.CacheDir))

	started := time.Now()
	results := dlbird.Run(cmd.Context(), selection, clients, cfg, renderer.Handler())
	finished := time.Now()

	recordHistory(logger, cfg, started, finished, results)

	for _, r := range results {
		if r.MarkerWarning != nil {
			logger.Warn("marker write failed", zap.String("dataset", r.Dataset), zap.Error(r.MarkerWarning))
		}
		if r.Err != nil {
			logger.Error("acquisition failed", zap.String("dataset", r.Dataset), zap.Error(r.Err))
		}
	}

	if !dlbird.Succeeded(results) {
		return fmt.Errorf("%s", dlbird.Summary(results))
	}
	return nil
}

// reportEnvironment prints the effective cache/credential configuration
// before the run starts, mirroring what the user would otherwise have to
// discover from a failed download.
func reportEnvironment(ro *RootOpts, cfg dlbird.Settings, creds kaggle.Credentials) {
	if ro.Quiet || ro.JSONOut {
		return
	}
	if cfg.CacheDir != "" {
		fmt.Printf("cache directory: %s\n", cfg.CacheDir)
	} else {
		fmt.Println("cache directory: default (~/.cache/dlbird); set --cache or KAGGLEHUB_CACHE to change")
	}
	if creds.Empty() {
		fmt.Println("kaggle credentials: not configured (required for competition downloads)")
	} else {
		fmt.Printf("kaggle credentials: %s\n", creds.Username)
	}
	fmt.Printf("marker files: %s\n\n", cfg.OutputDir)
}

// recordHistory is best effort: a broken history DB must not turn a
// successful acquisition run into a failure.
func recordHistory(logger *zap.Logger, cfg dlbird.Settings, started, finished time.Time, results []dlbird.Result) {
	store, err := history.Open(filepath.Join(cfg.OutputDir, "runs.db"))
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	runID, err := store.RecordRun(started, finished, results)
	if err != nil {
		logger.Warn("history record failed", zap.Error(err))
		return
	}
	logger.Debug("run recorded", zap.String("run_id", runID))
}
