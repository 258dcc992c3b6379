// Package homeassistant is a minimal client for the Home Assistant HTTP API,
// covering the two calls this tool makes: the liveness probe and the
// button-press service call.
package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request. There is no retry: a failed attempt
// is reported immediately.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failure response body is carried into the
// error message.
const maxErrorBody = 200

const (
	healthPath = "/api/"
	pressPath  = "/api/services/button/press"
)

// ErrMissingCredentials is returned when the base URL or token is empty.
// No network call is attempted in that case.
var ErrMissingCredentials = errors.New("missing required credentials")

// StatusError is a response outside the success range.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// Client issues authenticated requests against one Home Assistant instance.
// TLS verification is always on; there is no knob to disable it.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL and long-lived access
// token. The URL is expected to be pre-validated (no trailing slash).
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Verify probes the API root to confirm the instance is reachable and the
// token is accepted. Empty credentials short-circuit to
// ErrMissingCredentials without touching the network.
func (c *Client) Verify(ctx context.Context) error {
	if c.baseURL == "" || c.token == "" {
		return ErrMissingCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	return c.do(req)
}

// PressButton invokes the button.press service for the given entity.
func (c *Client) PressButton(ctx context.Context, entityID string) error {
	if c.baseURL == "" || c.token == "" {
		return ErrMissingCredentials
	}

	body, err := json.Marshal(map[string]string{"entity_id": entityID})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pressPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// do sends the request with bearer auth and maps the response onto the
// success range. 200 through 298 is success; 299 and everything above or
// below is a StatusError carrying a truncated body snippet.
func (c *Client) do(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 299 {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Code: resp.StatusCode,
		Body: strings.TrimSpace(string(snippet)),
	}
}
