package shoper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shopsync/internal/logger"
)

// Connection identifies one remote shop API: where it lives and how to
// authenticate against it. Read-only once handed to a Client.
type Connection struct {
	BaseURL     string
	BearerToken string
}

// Client talks to a Shoper-style REST API whose exact endpoint layout and
// response schema are discovered at runtime rather than known up front.
type Client struct {
	conn        Connection
	httpClient  *http.Client
	logger      *logger.Logger
	policy      *FieldPolicy
	settleDelay time.Duration
}

type Option func(*Client)

// WithTimeout overrides the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithSettleDelay sets how long the write-verify engine waits before
// re-reading a record it just updated. Zero is allowed (used in tests).
func WithSettleDelay(d time.Duration) Option {
	return func(c *Client) {
		c.settleDelay = d
	}
}

// WithFieldPolicy swaps the mutability rule tables, e.g. for a remote
// platform version with a different set of writable attributes.
func WithFieldPolicy(p *FieldPolicy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

func NewClient(conn Connection, logger *logger.Logger, opts ...Option) *Client {
	c := &Client{
		conn: conn,
		httpClient: &http.Client{
			Timeout: 12 * time.Second,
		},
		logger:      logger,
		policy:      DefaultFieldPolicy(),
		settleDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connection returns the connection descriptor the client was built with.
func (c *Client) Connection() Connection {
	return c.conn
}

// Policy returns the mutability rule tables in effect.
func (c *Client) Policy() *FieldPolicy {
	return c.policy
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.conn.BearerToken)
	req.Header.Set("Accept", "application/json")
}

// getJSON fetches url and decodes the body into an untyped document.
// A non-200 status or transport failure is an error; the caller decides
// whether to fall through to the next candidate URL.
func (c *Client) getJSON(url string) (interface{}, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	var payload interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return payload, nil
}

// sendJSON issues one write attempt (POST/PUT/PATCH) with a JSON body and
// returns the status code plus the decoded response when the body parses as
// JSON. Transport failures return err; HTTP error statuses do not.
func (c *Client) sendJSON(method, url string, body interface{}) (int, interface{}, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var parsed interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			// Non-JSON body, keep a short excerpt for diagnostics.
			parsed = truncate(string(raw), 500)
		}
	}
	return resp.StatusCode, parsed, nil
}

// Roots returns the candidate REST roots for this client's base URL.
func (c *Client) Roots() []string {
	return BuildRestRoots(c.conn.BaseURL)
}

// GetJSON is the exported variant of getJSON for sibling packages that
// drive their own candidate-URL loops (the redirect engine).
func (c *Client) GetJSON(url string) (interface{}, error) {
	return c.getJSON(url)
}

// PostJSON posts a JSON payload and returns the status code plus the
// decoded response body.
func (c *Client) PostJSON(url string, body interface{}) (int, interface{}, error) {
	return c.sendJSON(http.MethodPost, url, body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
