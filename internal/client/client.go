// Package client downloads rendered calendars from a running wallcal server.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Client talks to the calendar API of a wallcal server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	now        func() time.Time
}

// Request selects the calendar to download. Zero sizes and an empty theme
// leave the choice to the server.
type Request struct {
	Width  int
	Height int
	Theme  string
}

// New creates a client for the server at rawURL. A nil httpClient means
// http.DefaultClient.
func New(rawURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", rawURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: parsed, httpClient: httpClient, now: time.Now}, nil
}

// calendarURL builds the image URL. The t parameter defeats intermediate caches.
func (c *Client) calendarURL(req Request) string {
	q := url.Values{}
	if req.Width > 0 {
		q.Set("width", strconv.Itoa(req.Width))
	}
	if req.Height > 0 {
		q.Set("height", strconv.Itoa(req.Height))
	}
	if req.Theme != "" {
		q.Set("theme", req.Theme)
	}
	q.Set("t", strconv.FormatInt(c.now().Unix(), 10))

	u := c.baseURL.JoinPath("api", "calendar")
	u.RawQuery = q.Encode()
	return u.String()
}

// Download fetches one calendar PNG and copies it to w.
func (c *Client) Download(ctx context.Context, req Request, w io.Writer) (int64, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.calendarURL(req), nil)
	if err != nil {
		return 0, fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Accept", "image/png")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		return 0, fmt.Errorf("unexpected content type %q", ct)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("could not read response body: %w", err)
	}
	return n, nil
}

// SaveToFile downloads a calendar to path. The file is written next to its
// destination first and renamed into place, so readers never see a partial image.
func (c *Client) SaveToFile(ctx context.Context, req Request, path string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := c.Download(ctx, req, tmp)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("could not write %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("could not move calendar into place: %w", err)
	}
	return n, nil
}

// readErrorBody reads at most a short prefix of an error response.
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return "(could not read error body)"
	}
	return strings.TrimSpace(string(body))
}
