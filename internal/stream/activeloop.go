// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/GiowGiow/dlbird/pkg/dlbird"
)

// DefaultRegistryEndpoint is the public Activeloop registry.
const DefaultRegistryEndpoint = "https://app.activeloop.ai"

// resolveHub checks a hub://org/name reference against the registry.
func (r *Resolver) resolveHub(ctx context.Context, ref string) (string, error) {
	path := strings.TrimPrefix(ref, "hub://")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid hub reference %q (expected hub://org/name)", ref)
	}

	endpoint := r.RegistryEndpoint
	if endpoint == "" {
		endpoint = DefaultRegistryEndpoint
	}
	url := fmt.Sprintf("%s/api/datasets/%s/%s", strings.TrimSuffix(endpoint, "/"), parts[0], parts[1])

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.httpc().Do(req)
	if err != nil {
		return "", err
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return ref, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return "", fmt.Errorf("registry %s: %w", resp.Status, dlbird.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("registry %s: %w", resp.Status, dlbird.ErrForbidden)
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("stream %s: %w", ref, dlbird.ErrNotFound)
	default:
		return "", fmt.Errorf("registry returned %s for %s", resp.Status, ref)
	}
}
