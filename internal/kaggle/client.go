// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

// Package kaggle is a minimal HTTP client for the public Kaggle API: direct
// dataset archive downloads and authenticated competition bundle downloads.
// Payloads land in a local cache directory; the orchestrator only ever sees
// the resulting paths.
package kaggle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GiowGiow/dlbird/pkg/dlbird"
)

// DefaultEndpoint is the Kaggle API base URL. Overridable for tests.
const DefaultEndpoint = "https://www.kaggle.com"

// Credentials are the Kaggle API token pair.
type Credentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// Empty reports whether no credentials are configured.
func (c Credentials) Empty() bool {
	return c.Username == "" && c.Key == ""
}

// LoadCredentials reads the API token from KAGGLE_USERNAME/KAGGLE_KEY, then
// falls back to ~/.kaggle/kaggle.json. Missing credentials are not an error
// here: public dataset downloads work anonymously, and the competition path
// checks for them at call time.
func LoadCredentials() Credentials {
	creds := Credentials{
		Username: strings.TrimSpace(os.Getenv("KAGGLE_USERNAME")),
		Key:      strings.TrimSpace(os.Getenv("KAGGLE_KEY")),
	}
	if !creds.Empty() {
		return creds
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return creds
	}
	b, err := os.ReadFile(filepath.Join(home, ".kaggle", "kaggle.json"))
	if err != nil {
		return creds
	}
	_ = json.Unmarshal(b, &creds)
	return creds
}

// ProgressFunc receives byte-level progress while an archive downloads.
// total is -1 when the server did not send a length.
type ProgressFunc func(name string, downloaded, total int64)

// Client talks to the Kaggle API. The zero value works for anonymous
// downloads into the default cache directory.
type Client struct {
	// Endpoint overrides DefaultEndpoint (used by tests).
	Endpoint string

	// Credentials authenticate competition downloads and private datasets.
	Credentials Credentials

	// CacheDir is where dataset archives are downloaded and extracted.
	// Empty means ~/.cache/dlbird.
	CacheDir string

	// HTTPClient overrides the default transport.
	HTTPClient *http.Client

	// Progress, when set, receives download progress events.
	Progress ProgressFunc
}

func (c *Client) endpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return strings.TrimSuffix(c.Endpoint, "/")
}

func (c *Client) httpc() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: tr}
}

func (c *Client) cacheDir() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dlbird-cache"
	}
	return filepath.Join(home, ".cache", "dlbird")
}

// IsValidHandle checks that a dataset handle is in "owner/slug" format.
func IsValidHandle(handle string) bool {
	parts := strings.Split(handle, "/")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}

// DownloadDataset downloads a public dataset archive into the cache and
// returns the directory holding the extracted files. An already-populated
// cache entry is returned as-is; versioning beyond that is not attempted.
func (c *Client) DownloadDataset(ctx context.Context, handle string) (string, error) {
	if !IsValidHandle(handle) {
		return "", fmt.Errorf("invalid dataset handle %q (expected owner/slug)", handle)
	}

	dest := filepath.Join(c.cacheDir(), "datasets", filepath.FromSlash(handle))
	if populated(dest) {
		return dest, nil
	}

	url := fmt.Sprintf("%s/api/v1/datasets/download/%s", c.endpoint(), handle)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", err
	}

	archive := filepath.Join(c.cacheDir(), "archives", strings.ReplaceAll(handle, "/", "__")+".zip")
	if err := c.download(ctx, url, archive, handle); err != nil {
		return "", err
	}
	if err := extractZip(archive, dest); err != nil {
		return "", fmt.Errorf("extract %s: %w", handle, err)
	}
	_ = os.Remove(archive)
	return dest, nil
}

// DownloadCompetition downloads a competition bundle into destDir and
// extracts it in place. Requires credentials and accepted competition rules.
func (c *Client) DownloadCompetition(ctx context.Context, slug, destDir string) error {
	if c.Credentials.Empty() {
		return fmt.Errorf("competition %s: %w", slug, dlbird.ErrUnauthorized)
	}

	url := fmt.Sprintf("%s/api/v1/competitions/data/download-all/%s", c.endpoint(), slug)
	archive := filepath.Join(destDir, slug+".zip")
	if err := c.download(ctx, url, archive, slug); err != nil {
		return err
	}
	if err := extractZip(archive, destDir); err != nil {
		return fmt.Errorf("extract %s: %w", slug, err)
	}
	return os.Remove(archive)
}

// addAuth sets basic auth and the user agent on an API request.
func (c *Client) addAuth(req *http.Request) {
	if !c.Credentials.Empty() {
		req.SetBasicAuth(c.Credentials.Username, c.Credentials.Key)
	}
	req.Header.Set("User-Agent", "dlbird/1")
}

// statusErr maps API response codes to the orchestrator's sentinel errors so
// the caller can attach the right remediation hint.
func statusErr(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("kaggle API %s: %w", resp.Status, dlbird.ErrUnauthorized)
	case http.StatusForbidden:
		return fmt.Errorf("kaggle API %s: %w", resp.Status, dlbird.ErrForbidden)
	case http.StatusNotFound:
		return fmt.Errorf("kaggle API %s: %w", resp.Status, dlbird.ErrNotFound)
	default:
		return fmt.Errorf("kaggle API returned %s", resp.Status)
	}
}

// populated reports whether dir exists and contains at least one entry.
func populated(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
