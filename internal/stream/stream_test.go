// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GiowGiow/dlbird/pkg/dlbird"
)

func TestResolveHub(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable dataset resolves to its reference", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		r := &Resolver{RegistryEndpoint: srv.URL}
		ref, err := r.ResolveStream(ctx, "hub://activeloop/nabirds-dataset-train")
		if err != nil {
			t.Fatalf("ResolveStream failed: %v", err)
		}
		if ref != "hub://activeloop/nabirds-dataset-train" {
			t.Errorf("unexpected ref %q", ref)
		}
		if gotPath != "/api/datasets/activeloop/nabirds-dataset-train" {
			t.Errorf("unexpected registry path %q", gotPath)
		}
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		r := &Resolver{RegistryEndpoint: srv.URL}
		_, err := r.ResolveStream(ctx, "hub://activeloop/does-not-exist")
		if !errors.Is(err, dlbird.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("malformed hub references are rejected", func(t *testing.T) {
		r := &Resolver{}
		for _, ref := range []string{"hub://", "hub://onlyorg", "hub:///name"} {
			if _, err := r.ResolveStream(ctx, ref); err == nil {
				t.Errorf("reference %q accepted", ref)
			}
		}
	})
}

func TestResolveStreamScheme(t *testing.T) {
	r := &Resolver{}
	_, err := r.ResolveStream(context.Background(), "ftp://somewhere/x")
	if err == nil {
		t.Fatal("unsupported scheme accepted")
	}
}

func TestParseS3Ref(t *testing.T) {
	cases := []struct {
		ref     string
		bucket  string
		key     string
		wantErr bool
	}{
		{ref: "s3://bucket/path/to/ds", bucket: "bucket", key: "path/to/ds"},
		{ref: "s3://bucket", bucket: "bucket", key: ""},
		{ref: "s3://", wantErr: true},
		{ref: "nots3", wantErr: true},
	}
	for _, tc := range cases {
		bucket, key, err := parseS3Ref(tc.ref)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tc.ref)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.ref, err)
			continue
		}
		if bucket != tc.bucket || key != tc.key {
			t.Errorf("%s: got %q/%q, want %q/%q", tc.ref, bucket, key, tc.bucket, tc.key)
		}
	}
}
