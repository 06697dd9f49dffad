// Package http provides a rate-limited HTTP client for YouTube endpoints
// with built-in retry logic.
//
// The timedtext caption endpoint throttles aggressively, so every request
// passes through a token-bucket limiter before it is sent.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"ytscribe/internal/retry"
)

// Config holds HTTP client configuration.
type Config struct {
	// Timeout for individual HTTP requests.
	Timeout time.Duration

	// RequestsPerSecond is the token bucket refill rate. Defaults to 2.5,
	// a conservative rate for YouTube's unauthenticated endpoints.
	RequestsPerSecond float64

	// Burst is the token bucket size. Defaults to 2.
	Burst int

	// UserAgent for outgoing requests.
	UserAgent string

	// Retry configuration for transient failures.
	Retry retry.Config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout:           30 * time.Second,
		RequestsPerSecond: 2.5,
		Burst:             2,
		UserAgent:         "ytscribe/1.0",
		Retry:             retry.DefaultConfig(),
	}
}

// Client wraps an HTTP client with rate limiting and retry logic.
type Client struct {
	base    *http.Client
	limiter *rate.Limiter
	config  *Config
}

// New creates a new HTTP client with the given configuration.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultConfig().RequestsPerSecond
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultConfig().Burst
	}

	return &Client{
		base: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		config:  cfg,
	}
}

// Response represents an HTTP response with status code and body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Get performs a rate-limited GET request with retry on transient failures.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	var response *Response

	err := retry.Do(ctx, c.config.Retry, isRetryableHTTPError, func(ctx context.Context) error {
		// Wait for a rate limit token before each attempt.
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("%w: %v", retry.ErrInvalidInput, err)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)

		resp, err := c.base.Do(req)
		if err != nil {
			return fmt.Errorf("http request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &HTTPError{StatusCode: resp.StatusCode, Body: body}
		}

		response = &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return response, nil
}

// isRetryableHTTPError treats 429 and 5xx as transient; other HTTP status
// errors are permanent.
func isRetryableHTTPError(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}
	if httpErr, ok := err.(*HTTPError); ok {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	return true
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.base.CloseIdleConnections()
	return nil
}
