package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrPriceNotFound indicates that no oracle price exists at or before the
// requested block height. Unlike transport failures this condition is
// permanent and is never retried.
var ErrPriceNotFound = errors.New("no oracle price at block")

// StatusError is a non-2xx response from the ledger API.
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s: %s", e.Code, e.URL, e.Body)
}

// Client is an HTTP client for the ledger API. Every request runs under the
// client's retry policy: transport errors, 429/5xx responses and JSON decode
// failures are retried with backoff, other 4xx responses are permanent.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	retry      Policy
}

// NewClient creates a ledger API client.
func NewClient(baseURL, userAgent string, retry Policy) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      retry,
	}
}

// get performs a single GET request, no retry.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, URL: url, Body: string(body)}
	}
	return body, nil
}

// getJSON performs a GET under the retry policy and unmarshals the response.
func (c *Client) getJSON(ctx context.Context, op, path string, dest any) error {
	return c.retry.Do(ctx, op, func() error {
		body, err := c.get(ctx, path)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("parsing JSON from %s: %w", path, err)
		}
		return nil
	})
}
