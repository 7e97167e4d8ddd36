package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/travelapp/go-travel-client/internal/domain"
	"github.com/travelapp/go-travel-client/internal/logger"
)

const (
	// DefaultTimeout is the standard timeout for store operations.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit caps outbound calls per second. Refresh cycles fan
	// out one fetch per distinct author, so the default is generous.
	DefaultRateLimit rate.Limit = 50
	DefaultRateBurst            = 100
)

// Client is the shared HTTP transport for the entity façades. It owns
// request construction, response decoding and the error taxonomy mapping.
// There is no caching at this level; every call reflects the remote state
// at the time of the call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit overrides the outbound rate limiter.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

// NewClient creates a client for the store at baseURL (e.g. "http://localhost:8081").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(DefaultRateLimit, DefaultRateBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one request against the store and decodes the JSON response
// into out when out is non-nil. Non-2xx responses are mapped onto the
// error taxonomy: 404 becomes NotFoundError for the given resource/id,
// everything else becomes TransportError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, resource string, id int64) error {
	op := method + " " + path
	log := logger.FromContext(ctx)
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &domain.TransportError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		recordRemoteCall(duration, err)
		log.WithField("op", op).WithError(err).Warn("store request failed")
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		recordRemoteCall(duration, nil)
		io.Copy(io.Discard, resp.Body)
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordRemoteCall(duration, fmt.Errorf("status %d", resp.StatusCode))
		log.WithField("op", op).Warnf("store returned status %d", resp.StatusCode)
		io.Copy(io.Discard, resp.Body)
		return &domain.TransportError{Op: op, Status: resp.StatusCode}
	}
	recordRemoteCall(duration, nil)

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
