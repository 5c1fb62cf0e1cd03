package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/sdash/internal/pipeline"
)

const (
	requestTimeout = 5 * time.Second
	maxBodySize    = 8 << 20 // 8 MB
)

// ErrNotFound is returned for an unknown view or page.
var ErrNotFound = errors.New("server: not found")

// APIError is a non-2xx response decoded from its ErrorBody.
type APIError struct {
	StatusCode int
	Body       ErrorBody
}

func (e *APIError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("server: HTTP %d: %s", e.StatusCode, e.Body.Message)
	}
	return fmt.Sprintf("server: HTTP %d", e.StatusCode)
}

// Is lets errors.Is match ErrNotFound on a 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client reads views from a running sdash API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for addr, either "host:port" or a full URL.
func NewClient(addr string) *Client {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &Client{baseURL: addr, http: &http.Client{}}
}

// Status fetches the service status.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := c.getJSON(ctx, "/v1/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Countries fetches the sorted country list.
func (c *Client) Countries(ctx context.Context) ([]string, error) {
	var countries []string
	if err := c.getJSON(ctx, "/v1/countries", &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// Report fetches one view. Data is decoded generically (maps and slices)
// since its shape depends on the view.
func (c *Client) Report(ctx context.Context, req pipeline.Request) (*pipeline.Report, error) {
	q := url.Values{}
	if req.Country != "" {
		q.Set("country", req.Country)
	}
	if req.TopN > 0 {
		q.Set("n", strconv.Itoa(req.TopN))
	}
	path := "/v1/views/" + url.PathEscape(string(req.View))
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var rep pipeline.Report
	if err := c.getJSON(ctx, path, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("server: parsing %s: %w", path, err)
	}
	return nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("server: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req) //nolint:gosec // URL comes from the user's --addr
	if err != nil {
		return nil, fmt.Errorf("server: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("server: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(body, &apiErr.Body)
		return nil, apiErr
	}
	return body, nil
}
