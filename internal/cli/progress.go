// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/cheggaaa/pb/v3"

	"github.com/GiowGiow/dlbird/internal/kaggle"
	"github.com/GiowGiow/dlbird/pkg/dlbird"
)

// renderer turns orchestrator events and byte progress into terminal output.
// Text mode prints one status line per dataset with a pb progress bar for
// archive downloads; JSON mode emits one JSON object per event.
type renderer struct {
	w     io.Writer
	json  bool
	quiet bool

	mu      sync.Mutex
	enc     *json.Encoder
	bar     *pb.ProgressBar
	barName string
}

func newRenderer(ro *RootOpts, w io.Writer) *renderer {
	r := &renderer{w: w, json: ro.JSONOut, quiet: ro.Quiet}
	if r.json {
		r.enc = json.NewEncoder(w)
		r.enc.SetEscapeHTML(false)
	}
	return r
}

// Handler returns the orchestrator progress callback.
func (r *renderer) Handler() dlbird.ProgressFunc {
	return func(ev dlbird.ProgressEvent) {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.finishBar()

		if r.json {
			_ = r.enc.Encode(ev)
			return
		}

		switch ev.Event {
		case "acquire_start":
			fmt.Fprintf(r.w, "acquiring %s (%s) ...\n", ev.Dataset, ev.Method)
		case "acquire_done":
			if ev.Status == dlbird.StatusSucceeded {
				fmt.Fprintf(r.w, "✓ %s: %s\n", ev.Dataset, ev.Path)
			} else {
				fmt.Fprintf(r.w, "✗ %s: %s\n", ev.Dataset, ev.Message)
			}
		case "marker_warn":
			fmt.Fprintf(r.w, "warning: %s\n", ev.Message)
		case "done":
			fmt.Fprintf(r.w, "\n%s\n", ev.Message)
		}
	}
}

// ByteProgress returns the byte-level callback passed to the download
// client, or nil when bars are unwanted (quiet/JSON mode).
func (r *renderer) ByteProgress() kaggle.ProgressFunc {
	if r.json || r.quiet {
		return nil
	}
	return func(name string, downloaded, total int64) {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.bar == nil || r.barName != name {
			r.finishBar()
			r.barName = name
			if total > 0 {
				r.bar = pb.Full.Start64(total)
			} else {
				r.bar = pb.Full.Start64(0)
			}
			r.bar.Set(pb.Bytes, true)
		}
		r.bar.SetCurrent(downloaded)
	}
}

// Close finishes any active bar.
func (r *renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishBar()
}

func (r *renderer) finishBar() {
	if r.bar != nil {
		r.bar.Finish()
		r.bar = nil
		r.barName = ""
	}
}
