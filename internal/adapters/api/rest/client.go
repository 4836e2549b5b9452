package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"strafenkasse/internal/adapters/http/perf"
)

// DefaultTimeout bounds any single backend call.
const DefaultTimeout = 15 * time.Second

// Sentinel errors for the backend error taxonomy. Handlers branch on these:
// unauthorized forces a local logout, not found is surfaced as a flash
// message, anything else is a transient API failure.
var (
	ErrUnauthorized = errors.New("backend rejected the bearer token")
	ErrNotFound     = errors.New("resource not found")
)

// APIError carries a backend-supplied detail message for 4xx responses that
// are neither auth nor not-found failures.
type APIError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Client is the shared JSON-over-HTTP client for the remote backend. All
// entity adapters call through Do; the bearer token is supplied per call
// because it belongs to the browser session, not to the process.
type Client struct {
	baseURL   string
	http      *http.Client
	collector *perf.Collector
}

// NewClient creates a client for the backend at baseURL (e.g.
// "https://kasse.example.org"). The "/api" prefix is appended per call.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// SetCollector enables backend-call timing on the perf dashboard.
func (c *Client) SetCollector(collector *perf.Collector) {
	c.collector = collector
}

// record feeds one backend call into the perf collector. status 0 marks a
// transport failure.
func (c *Client) record(method, path string, status int, start time.Time) {
	if c.collector == nil {
		return
	}
	c.collector.Record(perf.Entry{
		Kind:       perf.KindBackend,
		Path:       method + " /api" + path,
		StatusCode: status,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:  start,
	})
}

// errorBody matches the backend's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// Do performs one backend call. body (if non-nil) is marshalled as JSON;
// out (if non-nil) receives the decoded response body.
// PRE: path starts with "/"
// POST: Returns nil on 2xx; ErrUnauthorized on 401/403; ErrNotFound on 404;
// *APIError on other 4xx; a wrapped transport/5xx error otherwise
func (c *Client) Do(ctx context.Context, token, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(method, path, 0, start)
		slog.Warn("api_event", "event", "request_failed", "method", method, "path", path, "error", err.Error())
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()
	c.record(method, path, resp.StatusCode, start)

	if resp.StatusCode >= 400 {
		var eb errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &eb)
		slog.Warn("api_event", "event", "request_rejected",
			"method", method, "path", path, "status", resp.StatusCode,
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0)

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return ErrUnauthorized
		case resp.StatusCode == http.StatusNotFound:
			if eb.Detail != "" {
				return fmt.Errorf("%s: %w", eb.Detail, ErrNotFound)
			}
			return ErrNotFound
		case resp.StatusCode < 500:
			return &APIError{Status: resp.StatusCode, Detail: eb.Detail}
		default:
			return fmt.Errorf("backend error %d", resp.StatusCode)
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Get is shorthand for Do with GET and no request body.
func (c *Client) Get(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.Do(ctx, token, http.MethodGet, path, query, nil, out)
}

// Post is shorthand for Do with POST.
func (c *Client) Post(ctx context.Context, token, path string, body, out any) error {
	return c.Do(ctx, token, http.MethodPost, path, nil, body, out)
}

// Put is shorthand for Do with PUT.
func (c *Client) Put(ctx context.Context, token, path string, body, out any) error {
	return c.Do(ctx, token, http.MethodPut, path, nil, body, out)
}

// Delete is shorthand for Do with DELETE and no bodies.
func (c *Client) Delete(ctx context.Context, token, path string) error {
	return c.Do(ctx, token, http.MethodDelete, path, nil, nil, nil)
}
