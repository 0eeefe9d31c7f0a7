package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anonto42/food-roulette/backend/internal/observability"
	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"github.com/cenkalti/backoff/v5"
)

// ErrUnavailable wraps every failure to get a usable answer from a third-party
// API: transport errors, timeouts, non-2xx statuses and undecodable bodies.
var ErrUnavailable = errors.New("upstream service unavailable")

// Options configures a Client.
type Options struct {
	// Service labels logs and metrics ("mealdb", "yelp").
	Service string
	BaseURL string
	// Timeout bounds each attempt.
	Timeout    time.Duration
	MaxRetries uint
	// Header is added to every request, e.g. Authorization.
	Header     http.Header
	HTTPClient *http.Client
}

// Client performs JSON GETs against one base URL with bounded retry.
type Client struct {
	service    string
	baseURL    string
	timeout    time.Duration
	maxRetries uint
	header     http.Header
	http       *http.Client
}

// NewClient creates a Client. Zero timeout and retry values fall back to 5s
// and 3 attempts.
func NewClient(opts Options) *Client {
	c := &Client{
		service:    opts.Service,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		header:     opts.Header,
		http:       opts.HTTPClient,
	}
	if c.timeout <= 0 {
		c.timeout = 5 * time.Second
	}
	if c.maxRetries == 0 {
		c.maxRetries = 3
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

// StatusError reports a non-2xx answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// GetJSON fetches path with query params and decodes the body into out.
// Client errors (4xx) are not retried. Every failure wraps ErrUnavailable.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		return struct{}{}, c.fetch(ctx, target, out)
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(c.maxRetries))

	if err != nil {
		observability.UpstreamRequests.WithLabelValues(c.service, "error").Inc()
		logger.Warn(ctx).
			Err(err).
			Str("service", c.service).
			Str("path", path).
			Int("attempts", attempt).
			Msg("upstream request failed")
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, c.service, err)
	}
	observability.UpstreamRequests.WithLabelValues(c.service, "ok").Inc()
	return nil
}

func (c *Client) fetch(ctx context.Context, target string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		serr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return backoff.Permanent(serr)
		}
		return serr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
