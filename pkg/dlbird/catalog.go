// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dlbird

// Catalog returns the supported datasets in their fixed processing order.
// Run processes selections in this order regardless of flag order, so test
// output stays reproducible.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			ID:       "cub200",
			Name:     "CUB-200-2011",
			Category: CategoryImage,
			Method:   MethodDirect,
			Handle:   "wenewone/cub2002011",
			SizeHint: "~1.2 GB",
		},
		{
			ID:       "nabirds",
			Name:     "NABirds",
			Category: CategoryImage,
			Method:   MethodStreaming,
			StreamRefs: []string{
				"hub://activeloop/nabirds-dataset-train",
				"hub://activeloop/nabirds-dataset-val",
			},
			SizeHint: "streamed",
		},
		{
			ID:       "xeno-canto",
			Name:     "Xeno-Canto Bird Recordings (A-M)",
			Category: CategoryAudio,
			Method:   MethodDirect,
			Handle:   "rohanrao/xeno-canto-bird-recordings-extended-a-m",
			SizeHint: "~60 GB",
		},
		{
			ID:       "birdclef2025",
			Name:     "BirdCLEF-2025",
			Category: CategoryAudio,
			Method:   MethodCompetition,
			Handle:   "birdclef-2025",
			SizeHint: "~12 GB",
		},
		{
			ID:       "114species",
			Name:     "Sound of 114 Species",
			Category: CategoryAudio,
			Method:   MethodDirect,
			Handle:   "soumendraprasad/sound-of-114-species-of-birds-till-2022",
			SizeHint: "~5 GB",
		},
	}
}

// Lookup returns the descriptor with the given ID.
func Lookup(id string) (Descriptor, bool) {
	for _, d := range Catalog() {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Resolve builds the selection for a run. With all set it returns the full
// catalog; otherwise it returns the descriptors whose IDs appear in picked,
// in catalog order. An empty selection is ErrNoSelection: the user must pick
// at least one dataset or --all, and no filesystem side effects may have
// happened by then.
func Resolve(all bool, picked []string) ([]Descriptor, error) {
	if all {
		return Catalog(), nil
	}
	want := make(map[string]bool, len(picked))
	for _, id := range picked {
		want[id] = true
	}
	var sel []Descriptor
	for _, d := range Catalog() {
		if want[d.ID] {
			sel = append(sel, d)
		}
	}
	if len(sel) == 0 {
		return nil, ErrNoSelection
	}
	return sel, nil
}
