// Package httpclient implements the HTTP client shared by every
// provider adapter: one pooled client per provider kind, bounded
// retry with exponential backoff and jitter on retryable errors, and a
// paging helper for walking a provider's full listing page by page.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
)

const defaultTimeout = 30 * time.Second

// MapErrorFunc adapts a RawAPIError parsed from a failed response body
// into the unified taxonomy; each provider adapter supplies its own.
type MapErrorFunc func(raw dnserr.RawAPIError, ctx dnserr.ErrorContext) *dnserr.Error

// ParseErrorFunc extracts a RawAPIError from a non-2xx response body.
// Providers differ in where the code/message live in the JSON.
type ParseErrorFunc func(body []byte, statusCode int) dnserr.RawAPIError

// Client is the single pooled HTTP client used by one provider
// adapter. Construct one per provider kind and reuse it for every
// account of that kind.
type Client struct {
	provider   string
	http       *retryablehttp.Client
	mapError   MapErrorFunc
	parseError ParseErrorFunc
	maxRetries int
}

// Option configures a Client at construction time.
type Option func(*Client)

func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n; c.http.RetryMax = n }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.HTTPClient.Timeout = d }
}

// New builds a Client for provider, with a default timeout of 30s and
// a default of 3 retries.
func New(provider string, mapError MapErrorFunc, parseError ParseErrorFunc, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = defaultTimeout
	rc.Backoff = jitteredBackoff
	rc.CheckRetry = retryablehttp.DefaultRetryPolicy
	// hand the final response back after retries are exhausted, so a
	// lingering 429/5xx is classified by status code rather than
	// collapsing into a transport error
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		provider:   provider,
		http:       rc,
		mapError:   mapError,
		parseError: parseError,
		maxRetries: 3,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// jitteredBackoff implements exponential backoff with full jitter,
// bounded by retryablehttp's min/max.
func jitteredBackoff(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
	base := min << uint(attemptNum)
	if base <= 0 || base > max {
		base = max
	}
	jitter := time.Duration(rand.Int63n(int64(base) + 1))
	return jitter
}

// Request is a single outbound HTTP call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Send issues req, retrying retryable errors up to max_retries times,
// and on success unmarshals the response body into out. On
// failure it parses the body for provider error fields and returns the
// mapped dnserr.Error.
func (c *Client) Send(ctx context.Context, req Request, ectx dnserr.ErrorContext, out any) error {
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	rreq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return dnserr.NetworkError(c.provider, err.Error())
	}
	for k, v := range req.Headers {
		rreq.Header.Set(k, v)
	}

	resp, err := c.http.Do(rreq)
	if err != nil {
		if ctx.Err() != nil {
			return dnserr.Timeout(c.provider, err.Error())
		}
		return dnserr.NetworkError(c.provider, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return dnserr.NetworkError(c.provider, err.Error())
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return dnserr.RateLimited(c.provider, retryAfter)
	}

	if resp.StatusCode >= 400 {
		raw := c.parseError(respBody, resp.StatusCode)
		mapped := c.mapError(raw, ectx)
		if mapped == nil {
			mapped = dnserr.Unknown(c.provider, raw.Code, raw.Message)
		}
		logMapped(c.provider, mapped)
		return mapped
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return dnserr.SerializationError(c.provider, fmt.Sprintf("decoding response: %v", err))
		}
	}
	return nil
}

func logMapped(provider string, e *dnserr.Error) {
	fields := log.Fields{"provider": provider, "kind": e.Kind(), "raw_code": e.RawCode()}
	if e.IsExpected() {
		log.WithFields(fields).Warn(e.Error())
	} else {
		log.WithFields(fields).Error(e.Error())
	}
}

func parseRetryAfter(v string) int {
	if v == "" {
		return 0
	}
	var seconds int
	if _, err := fmt.Sscanf(v, "%d", &seconds); err == nil {
		return seconds
	}
	return 0
}
