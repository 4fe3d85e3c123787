package theoddsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

const (
	DefaultBaseURL = "https://api.the-odds-api.com"
	apiVersion     = "v4"
	userAgent      = "Titanium/1.0 (Fortuna Candidate Engine)"
	timeout        = 10 * time.Second
	maxRetries     = 3
	retryDelay     = 2 * time.Second
)

// Client implements the VendorAdapter interface for The Odds API.
// It returns payloads untouched; normalization happens downstream.
type Client struct {
	apiKey     string
	baseURL    string
	retryDelay time.Duration
	httpClient *http.Client
	rateLimits models.RateLimits
	mu         sync.RWMutex
}

// Ensure Client implements VendorAdapter
var _ contracts.VendorAdapter = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different host (tests, proxies)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRetryDelay overrides the base backoff between attempts
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// NewClient creates a new The Odds API client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		retryDelay: retryDelay,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimits: models.RateLimits{
			RequestsRemaining: 500, // Default quota
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchOdds retrieves the batched featured-market payload for a sport
func (c *Client) FetchOdds(ctx context.Context, opts *models.FetchOddsOptions) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s/sports/%s/odds", c.baseURL, apiVersion, opts.Sport)

	body, err := c.doRequestWithRetry(ctx, endpoint+"?"+c.params(opts.Regions, opts.Markets).Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch odds failed: %w", err)
	}

	return body, nil
}

// FetchEventOdds retrieves the single-event payload (used for props markets)
func (c *Client) FetchEventOdds(ctx context.Context, opts *models.FetchEventOddsOptions) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s/sports/%s/events/%s/odds", c.baseURL, apiVersion, opts.Sport, url.PathEscape(opts.EventID))

	body, err := c.doRequestWithRetry(ctx, endpoint+"?"+c.params(opts.Regions, opts.Markets).Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch event odds failed: %w", err)
	}

	return body, nil
}

// GetRateLimits returns a copy of the current rate limit information
func (c *Client) GetRateLimits() models.RateLimits {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rateLimits
}

func (c *Client) params(regions, markets []string) url.Values {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", strings.Join(regions, ","))
	params.Set("markets", strings.Join(markets, ","))
	params.Set("oddsFormat", "american")
	params.Set("dateFormat", "iso")
	return params
}

// doRequestWithRetry performs HTTP request with retry logic
func (c *Client) doRequestWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return body, nil
		}

		lastErr = err

		// Don't retry on client errors (4xx except 429)
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 && httpErr.StatusCode != http.StatusTooManyRequests {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs a single HTTP request
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	c.updateRateLimits(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return body, nil
}

// updateRateLimits extracts rate limit info from response headers
func (c *Client) updateRateLimits(headers http.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remaining := headers.Get("x-requests-remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimits.RequestsRemaining = val
		}
	}

	if used := headers.Get("x-requests-used"); used != "" {
		if val, err := strconv.Atoi(used); err == nil {
			c.rateLimits.RequestsUsed = val
		}
	}
}

// HTTPError represents a non-200 response from the vendor
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
