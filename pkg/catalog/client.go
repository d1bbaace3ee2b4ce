package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Searcher is the one network-facing operation the game list needs.
// Implementations must be safe for concurrent use.
type Searcher interface {
	Search(ctx context.Context, q Query) (*SearchResult, error)
}

// Default client settings.
const (
	DefaultBaseURL    = "https://api.boardgameatlas.com/api"
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
	defaultCooloff    = 2 * time.Second
	maxErrorBody      = 512
)

// ErrRateLimited is returned when every attempt was answered with 429.
var ErrRateLimited = errors.New("catalog: request was rate limited on each attempt")

// APIError is returned for any non-2xx response other than a rate limit.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("catalog: unexpected status %d: %s", e.StatusCode, e.Body)
}

// ClientConfig configures an HTTP Client.
type ClientConfig struct {
	// BaseURL is the API root; "/search" is appended. Empty uses DefaultBaseURL.
	BaseURL string

	// ClientID is the API key sent as the client_id parameter.
	ClientID string

	// Timeout bounds a single HTTP attempt. Zero uses DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is how many times a rate-limited request is attempted.
	// Zero uses DefaultMaxRetries.
	MaxRetries int

	// UserAgent is sent with every request.
	UserAgent string

	// HTTPClient overrides the underlying client (tests).
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client is the HTTP implementation of Searcher.
type Client struct {
	baseURL    string
	clientID   string
	maxRetries int
	userAgent  string
	http       *http.Client
	logger     *slog.Logger

	// sleep is swapped in tests to avoid real cool-off waits.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ Searcher = (*Client)(nil)

// NewClient returns a Client configured from cfg.
func NewClient(cfg ClientConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "boardgame-atlas"
	}

	return &Client{
		baseURL:    base,
		clientID:   cfg.ClientID,
		maxRetries: retries,
		userAgent:  ua,
		http:       hc,
		logger:     logger,
		sleep:      sleepContext,
	}
}

// Search performs GET {base}/search with the encoded query.
func (c *Client) Search(ctx context.Context, q Query) (*SearchResult, error) {
	params := q.Values()
	if c.clientID != "" {
		params.Set("client_id", c.clientID)
	}
	endpoint := c.baseURL + "/search?" + params.Encode()

	resp, err := c.do(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("catalog: decode search response: %w", err)
	}
	c.logger.Debug("search complete", "query", q.Key(), "games", len(result.Games))
	return &result, nil
}

// do issues the request, waiting out 429 responses up to maxRetries times.
// The caller closes the returned body.
func (c *Client) do(ctx context.Context, endpoint string) (*http.Response, error) {
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("catalog: build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("catalog: search request: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			cooloff := retryAfter(resp.Header.Get("Retry-After"))
			drain(resp.Body)
			c.logger.Warn("rate limited", "attempt", attempt, "cooloff", cooloff)
			if attempt == c.maxRetries {
				return nil, ErrRateLimited
			}
			if err := c.sleep(ctx, cooloff); err != nil {
				return nil, fmt.Errorf("catalog: search request: %w", err)
			}
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			resp.Body.Close()
			return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		default:
			return resp, nil
		}
	}
	return nil, ErrRateLimited
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	if v == "" {
		return defaultCooloff
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return defaultCooloff
	}
	return time.Duration(secs) * time.Second
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
