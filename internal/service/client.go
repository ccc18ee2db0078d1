package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/instrumentation"
)

const (
	// DefaultBaseURL is where the facade listens when nothing is configured.
	DefaultBaseURL = "http://127.0.0.1:5002"

	// defaultTimeout bounds a single facade call end to end.
	defaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)

// APIError is a non-2xx answer from the facade.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar service returned %d: %s", e.Status, e.Message)
}

// Client calls the calendar facade API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, so tests can inject an
// httptest transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a facade client for the given base URL. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the facade endpoint this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health checks that the facade answers on GET /health.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", nil, nil)
}

// ListEvents fetches the upcoming events listing.
func (c *Client) ListEvents(ctx context.Context) (*ListEventsResult, error) {
	var result ListEventsResult
	if err := c.do(ctx, "list", http.MethodGet, "/events", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Schedule creates an event through the facade.
func (c *Client) Schedule(ctx context.Context, req ScheduleRequest) (*MutationResult, error) {
	var result MutationResult
	if err := c.do(ctx, "create", http.MethodPost, "/schedule", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateEvent applies a partial update through the facade.
func (c *Client) UpdateEvent(ctx context.Context, req UpdateRequest) (*MutationResult, error) {
	var result MutationResult
	if err := c.do(ctx, "update", http.MethodPut, "/event/update", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteEvent removes an event through the facade.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) (*MessageResult, error) {
	var result MessageResult
	body := map[string]string{"event_id": eventID}
	if err := c.do(ctx, "delete", http.MethodDelete, "/event", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do issues one request inside a client span named after the forwarded
// calendar operation, so traces show the tool span with its outbound call.
func (c *Client) do(ctx context.Context, op, method, path string, reqBody, out interface{}) error {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, "calendar", op)
	defer span.End()

	if err := c.send(ctx, method, path, reqBody, out); err != nil {
		instrumentation.SetSpanError(span, err)
		return err
	}
	instrumentation.SetSpanSuccess(span)
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, reqBody, out interface{}) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach calendar service: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &APIError{
			Status:  res.StatusCode,
			Message: extractMessage(data, res.Status),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// extractMessage pulls the facade's message field out of an error body,
// falling back to the raw body or the HTTP status line.
func extractMessage(data []byte, status string) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}
	return status
}
