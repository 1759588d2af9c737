package donation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AmountFetcher is implemented by anything that can report the current total.
type AmountFetcher interface {
	FetchAmount(ctx context.Context) (int64, error)
}

// Ensure Client and Simulator implement AmountFetcher at compile time.
var (
	_ AmountFetcher = (*Client)(nil)
	_ AmountFetcher = (*Simulator)(nil)
)

// Client talks to the aggregator endpoint.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "pledge/0.1"
	requestTimeout   = 5 * time.Second
	maxErrorBody     = 64 << 10
)

// NewClient builds a Client for the full sheet-data URL, e.g.
// "http://127.0.0.1:3000/api/sheet-data". A bare host:port gets "/sheet-data".
func NewClient(apiURL string, timeout time.Duration) (*Client, error) {
	endpoint, err := parseEndpoint(apiURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Endpoint returns the resolved URL the client polls.
func (c *Client) Endpoint() string {
	if c == nil || c.endpoint == nil {
		return ""
	}
	return c.endpoint.String()
}

// FetchAmount asks the aggregator for the current donation total.
func (c *Client) FetchAmount(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: execute request: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return 0, statusError(resp)
	}

	var payload SheetData
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if !payload.Success {
		msg := strings.TrimSpace(payload.Error)
		if msg == "" {
			msg = "backend error"
		}
		return 0, fmt.Errorf("%w: %s", ErrNoData, msg)
	}
	return payload.Amount, nil
}

// statusError reads the failure payload if there is one so the provider's
// message reaches the status line.
func statusError(resp *http.Response) error {
	sentinel := ErrTransport
	if resp.StatusCode >= 500 {
		sentinel = ErrProviderUnavailable
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload SheetData
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return fmt.Errorf("%w: api returned status %d: %s", sentinel, resp.StatusCode, strings.TrimSpace(payload.Error))
	}
	return fmt.Errorf("%w: api returned status %d", sentinel, resp.StatusCode)
}

func parseEndpoint(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		return nil, fmt.Errorf("api url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/sheet-data"
	}
	u.Fragment = ""
	return u, nil
}
