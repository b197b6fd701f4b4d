// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package kaggle

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// download streams url into dest. The file is written with a .tmp suffix and
// renamed only after the body is fully copied, so a partial transfer never
// masquerades as a complete archive.
func (c *Client) download(ctx context.Context, url, dest, name string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	c.addAuth(req)

	resp, err := c.httpc().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusErr(resp)
	}

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	var src io.Reader = resp.Body
	if c.Progress != nil {
		src = &progressReader{
			reader:   resp.Body,
			total:    resp.ContentLength,
			name:     name,
			emit:     c.Progress,
			lastEmit: time.Now(),
			interval: 200 * time.Millisecond,
		}
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}

// progressReader emits throttled byte progress while the body is read.
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	name       string
	emit       ProgressFunc
	lastEmit   time.Time
	interval   time.Duration
}

func (pr *progressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)
	if n > 0 {
		pr.downloaded += int64(n)
		if time.Since(pr.lastEmit) >= pr.interval || err == io.EOF {
			pr.emit(pr.name, pr.downloaded, pr.total)
			pr.lastEmit = time.Now()
		}
	}
	return n, err
}
