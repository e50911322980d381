// Package jira provides a REST client for the Jira Cloud platform API.
// It implements a deep module interface - simple methods hiding the HTTP
// plumbing, retry policy, and response decoding.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xalt/visitcal/internal/auth"
	"github.com/xalt/visitcal/internal/logging"
)

// RetryPolicy controls the exponential backoff applied to every network
// call: delay = BaseDelay * Factor^attempt, up to MaxRetries retries.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Factor     int
}

// DefaultRetryPolicy matches the documented backoff: 1s base, doubling,
// three retries.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: time.Second, Factor: 2}
}

// Client is an authenticated Jira Cloud REST client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      auth.Credentials
	retry      RetryPolicy
}

// New creates a Jira client for the given site base URL
// (e.g. "https://example.atlassian.net") using basic auth credentials.
func New(baseURL string, creds auth.Credentials) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("jira base URL is required")
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		creds:      creds,
		retry:      DefaultRetryPolicy(),
	}, nil
}

// SetRetryPolicy overrides the default backoff. Mainly used by tests to
// keep retry delays short.
func (c *Client) SetRetryPolicy(p RetryPolicy) {
	c.retry = p
}

// BaseURL returns the configured site URL, used to build browse links.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON issues one request and decodes a JSON response into out.
// Non-2xx statuses become typed *APIError values carrying the given code.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, code string, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.creds.Email, c.creds.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("jira request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, code, errorMessage(data, resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding jira response: %w", err)
		}
	}
	return nil
}

// withRetry runs fn under the client's backoff policy. Client errors
// other than 429 are surfaced immediately; rate limits, server errors
// and plain transport failures are retried until the budget runs out,
// after which the last error is returned.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := c.retry.BaseDelay

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt < c.retry.MaxRetries {
			logging.Warn("retrying jira call",
				"attempt", attempt+1,
				"max", c.retry.MaxRetries,
				"delay", delay,
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= time.Duration(c.retry.Factor)
		}
	}

	logging.Error("jira retry budget exhausted", lastErr)
	return lastErr
}

// errorMessage extracts a human-readable message from a Jira error body.
func errorMessage(body []byte, status int) string {
	var parsed struct {
		ErrorMessages []string `json:"errorMessages"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.ErrorMessages) > 0 {
		return strings.Join(parsed.ErrorMessages, "; ")
	}
	return http.StatusText(status)
}
