package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultBackoff is the delay before the first retry; it doubles per retry.
	DefaultBackoff = 300 * time.Millisecond
	// maxDocumentSize caps the feed body held in memory.
	maxDocumentSize = 64 << 20
)

// ErrUnexpectedStatus is returned for a non-retryable or exhausted HTTP status.
var ErrUnexpectedStatus = errors.New("unexpected provider status")

var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client fetches provider feeds over HTTP.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
	maxRetries int
	backoff    time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry overrides the retry count and base backoff.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// NewClient creates a fetch client.
func NewClient(logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		httpClient: &http.Client{},
		logger:     logger,
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultBackoff,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads the feed of p. Network errors and 429/5xx gateway statuses are
// retried with exponential backoff; other statuses fail immediately.
func (c *Client) Fetch(ctx context.Context, p Config) ([]byte, error) {
	log := c.logger.With(zap.String("provider", p.Name))

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff * time.Duration(1<<(attempt-1))
			log.Warn("Retrying provider fetch",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		body, retry, err := c.fetchOnce(ctx, p)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("provider %s unavailable after %d attempts: %w", p.Name, c.maxRetries+1, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, p Config) ([]byte, bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request for %s: %w", p.Name, err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A done caller context is final; a per-attempt timeout is not.
		if ctx.Err() != nil {
			return nil, false, err
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, retryableStatus[resp.StatusCode], fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read feed of %s: %w", p.Name, err)
	}
	return body, false, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
