// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

// Package stream resolves lazy dataset handles without transferring any
// payload. A resolved handle is just its reference string, confirmed to be
// reachable: hub:// references are checked against the Activeloop registry,
// s3:// references against the bucket itself.
package stream

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Resolver implements handle resolution for the streaming datasets.
// The zero value resolves against the public endpoints.
type Resolver struct {
	// RegistryEndpoint overrides the Activeloop registry URL (tests).
	RegistryEndpoint string

	// HTTPClient overrides the default transport.
	HTTPClient *http.Client

	// S3 overrides the S3 head API (tests). Lazily constructed from the
	// ambient AWS config when nil and an s3:// reference is resolved.
	S3 S3HeadAPI
}

// ResolveStream confirms that ref points at a reachable remote dataset and
// returns the canonical reference string to record in the marker file.
func (r *Resolver) ResolveStream(ctx context.Context, ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, "hub://"):
		return r.resolveHub(ctx, ref)
	case strings.HasPrefix(ref, "s3://"):
		return r.resolveS3(ctx, ref)
	default:
		return "", fmt.Errorf("unsupported stream reference %q (want hub:// or s3://)", ref)
	}
}

func (r *Resolver) httpc() *http.Client {
	if r.HTTPClient != nil {
		return r.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}
