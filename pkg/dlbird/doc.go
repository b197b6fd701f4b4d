// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

/*
Package dlbird orchestrates the acquisition of bird-classification datasets.

The package holds a static catalog of supported datasets (image and audio),
resolves a CLI-style selection against it, and acquires each selected dataset
through one of three client flavours: direct hub download, lazy streaming
handle resolution, or authenticated competition download. The heavy lifting
(auth, transfer, caching) belongs to the clients; this package decides which
client to call, records the resolved location in a per-dataset marker file,
and reports one Result per dataset.

# Quick start

	sel, err := dlbird.Resolve(false, []string{"cub200", "nabirds"})
	if err != nil {
		log.Fatal(err) // dlbird.ErrNoSelection when nothing was picked
	}

	results := dlbird.Run(ctx, sel, clients, dlbird.Settings{OutputDir: "datasets"}, func(ev dlbird.ProgressEvent) {
		fmt.Printf("[%s] %s %s\n", ev.Event, ev.Dataset, ev.Message)
	})

	if !dlbird.Succeeded(results) {
		os.Exit(1)
	}

# Failure isolation

A failure acquiring one dataset never aborts the run: Acquire catches every
client error and converts it to a failed Result carrying an
*AcquisitionError. Competition auth failures are annotated with the
remediation (accept the competition rules, configure credentials) instead of
surfacing a raw transport error.

# Marker files

Each successfully acquired dataset gets
<output>/<category>/<id>/dataset_path.txt containing a single line: the local
payload path, or the stream reference for streamed datasets. Markers are
overwritten on success and never written on failure, so an existing marker
always reflects a completed acquisition. When the marker itself cannot be
written the acquisition still counts as a success and the Result carries a
MarkerWriteError warning.
*/
package dlbird
