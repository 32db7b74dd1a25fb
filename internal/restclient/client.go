// Package restclient is the shared HTTP client used to talk to the Ensembl
// VEP and Variant Recoder REST endpoints: retrying transient failures with
// exponential backoff, breaking the circuit after repeated exhaustion, and
// optionally caching successful GET-shaped responses (spec.md §4.5).
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/vlinker/variant-linker/internal/cache"
)

// ErrUpstream wraps a non-retryable (or retry-exhausted) HTTP response.
type ErrUpstream struct {
	Status int
	Body   string
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.Status, e.Body)
}

// ErrCircuitOpen is returned when the breaker is open and a call is
// rejected without being attempted.
var ErrCircuitOpen = gobreaker.ErrOpenState

var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	MaxRetries int           // retries beyond the initial attempt
	Timeout    time.Duration // per-attempt HTTP timeout
	Cache      *cache.Tier   // optional; nil disables caching entirely
	Logger     *zap.Logger   // optional; defaults to a no-op logger
}

// Client is a retrying, circuit-broken, optionally-caching HTTP client for
// a single upstream base URL (e.g. the VEP REST or Recoder service).
type Client struct {
	baseURL    string
	maxRetries int
	httpClient *http.Client
	cache      *cache.Tier
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// New builds a Client for opts.BaseURL. One circuit breaker is maintained
// per Client (i.e. per base URL), per spec.md §9's guidance that breaker
// state is a property of the upstream host being called.
func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        opts.BaseURL,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		maxRetries: opts.MaxRetries,
		httpClient: &http.Client{Timeout: timeout},
		cache:      opts.Cache,
		breaker:    breaker,
		logger:     logger,
	}
}

// RequestOptions configures a single Fetch call.
type RequestOptions struct {
	Method       string // defaults to GET if Body is nil, else POST
	Body         any    // JSON-marshaled as the request body, if non-nil
	CacheEnabled bool
}

// Fetch builds baseUrl+endpointPath+"?"+querystring (silently dropping any
// "content-type" query key, since content type is always sent as a header)
// and executes it with retry, circuit-breaking, and optional caching
// (spec.md §4.5). The response body is returned as raw, undecoded JSON.
func (c *Client) Fetch(ctx context.Context, endpointPath string, queryParams url.Values, opts RequestOptions) (json.RawMessage, error) {
	reqURL := c.buildURL(endpointPath, queryParams)

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	cacheKey := method + " " + reqURL
	if opts.CacheEnabled && c.cache != nil && method == http.MethodGet {
		if payload, ok := c.cache.Get(cacheKey); ok {
			return json.RawMessage(payload), nil
		}
	}

	var bodyBytes []byte
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyBytes = b
	}

	correlationID := uuid.New().String()
	result, err := c.breaker.Execute(func() (any, error) {
		return c.doWithRetry(ctx, method, reqURL, bodyBytes, correlationID)
	})
	if err != nil {
		return nil, err
	}

	payload := result.(json.RawMessage)
	if opts.CacheEnabled && c.cache != nil && method == http.MethodGet {
		c.cache.Set(cacheKey, payload)
	}
	return payload, nil
}

func (c *Client) buildURL(endpointPath string, queryParams url.Values) string {
	q := url.Values{}
	for k, v := range queryParams {
		if strings.EqualFold(k, "content-type") {
			continue
		}
		q[k] = v
	}

	u := c.baseURL + endpointPath
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// doWithRetry performs the request, retrying retryable statuses and
// network errors with exponential backoff up to maxRetries additional
// attempts. Cancellation via ctx terminates both the in-flight request and
// any backoff wait.
func (c *Client) doWithRetry(ctx context.Context, method, reqURL string, body []byte, correlationID string) (json.RawMessage, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoffDuration(attempt)
			c.logger.Debug("retrying upstream request",
				zap.String("correlation_id", correlationID),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("request cancelled during backoff: %w", ctx.Err())
			case <-time.After(wait):
			}
		}

		payload, status, err := c.doOnce(ctx, method, reqURL, body, correlationID)
		if err == nil {
			return payload, nil
		}

		if status > 0 && !retryableStatus[status] {
			return nil, err
		}

		lastErr = err
		c.logger.Warn("upstream request failed",
			zap.String("correlation_id", correlationID),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	return nil, fmt.Errorf("exhausted %d retries: %w", c.maxRetries, lastErr)
}

// doOnce performs a single HTTP attempt. status is 0 for network-level
// failures (no response received at all).
func (c *Client) doOnce(ctx context.Context, method, reqURL string, body []byte, correlationID string) (json.RawMessage, int, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-Id", correlationID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, &ErrUpstream{Status: resp.StatusCode, Body: string(respBody)}
	}

	return json.RawMessage(respBody), resp.StatusCode, nil
}

// backoffDuration returns an exponential backoff delay for the given retry
// attempt (1-indexed), capped at 30 seconds.
func backoffDuration(attempt int) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempt))) * 100 * time.Millisecond
	if d > 30*time.Second {
		return 30 * time.Second
	}
	return d
}
