// Package transport posts JSON to the Wiro API and translates every failure
// mode into a single *Error type.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// maxErrorBody bounds how much of a failed response is kept in an Error.
const maxErrorBody = 512

// Poster sends a JSON body and returns the JSON response body.
type Poster interface {
	Post(ctx context.Context, url string, body any, header http.Header) (json.RawMessage, error)
}

// Error is returned for connection failures, non-2xx statuses and
// responses that are not valid JSON. StatusCode is 0 when no response
// was received.
type Error struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("POST %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("POST %s: API request failed with status %d: %s", e.URL, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("POST %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client implements Poster over net/http.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client whose requests time out after timeout.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: timeout}, logger)
}

// NewClientWithHTTP wraps an existing http.Client.
func NewClientWithHTTP(hc *http.Client, logger *zap.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{httpClient: hc, logger: logger}
}

// Post marshals body, sends it with header plus a JSON content type, and
// returns the raw response. No retries happen here.
func (c *Client) Post(ctx context.Context, url string, body any, header http.Header) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{URL: url, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("url", url), zap.Error(err))
		return nil, &Error{URL: url, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("request completed",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.Int("bytes", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{URL: url, StatusCode: resp.StatusCode, Body: truncate(string(data))}
	}

	if !json.Valid(data) {
		return nil, &Error{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(data)),
			Err:        fmt.Errorf("failed to parse response: malformed JSON"),
		}
	}

	return json.RawMessage(data), nil
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
