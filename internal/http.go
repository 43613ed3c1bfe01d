package internal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	pkgerrs "github.com/subfetch/subfetch/pkg/errors"
	"github.com/subfetch/subfetch/pkg/types"
)

// maxErrorBodyBytes bounds how much of an error response body is read when
// looking for Reddit's error envelope.
const maxErrorBodyBytes = 4096

// Client manages communication with Reddit's public listing endpoints.
// It owns no state beyond its read-only configuration and the shared
// *http.Client, so it is safe for concurrent use.
type Client struct {
	client    *http.Client
	BaseURL   *url.URL
	UserAgent string

	limiter *rate.Limiter
	logger  *slog.Logger
}

// RateLimitConfig controls how requests are paced before reaching Reddit.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. Defaults to 60 if zero.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 10 if zero.
	Burst int
}

const (
	DefaultRequestsPerMinute = 60
	DefaultRateLimitBurst    = 10
	secondsPerMinute         = 60.0
)

// NewClient returns a client for the listing API rooted at baseURL.
// If a nil httpClient is provided, http.DefaultClient will be used.
func NewClient(httpClient *http.Client, baseURL, userAgent string, rateCfg *RateLimitConfig, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Field: "BaseURL", Message: err.Error()}
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &pkgerrs.ConfigError{Field: "BaseURL", Message: "base URL must be absolute"}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	if rateCfg == nil {
		rateCfg = &RateLimitConfig{}
	}

	return &Client{
		client:    httpClient,
		BaseURL:   parsedURL,
		UserAgent: userAgent,
		limiter:   buildLimiter(*rateCfg),
		logger:    logger,
	}, nil
}

// NewRequest creates an API request for the path resolved relative to the
// BaseURL of the Client. The query values, if any, are encoded into the URL.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	u, err := c.BaseURL.Parse(path)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Field: "path", Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Field: "path", Message: err.Error()}
	}

	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("User-Agent", c.UserAgent)

	return req, nil
}

func buildLimiter(cfg RateLimitConfig) *rate.Limiter {
	requestsPerMinute := cfg.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultRateLimitBurst
	}

	limitPerSecond := rate.Limit(requestsPerMinute / secondsPerMinute)
	if limitPerSecond <= 0 {
		limitPerSecond = rate.Limit(1)
	}

	return rate.NewLimiter(limitPerSecond, burst)
}

// Do sends an API request and decodes the response body into v. The response
// is returned alongside any error so callers can inspect the final URL after
// redirects; its body has already been consumed and closed.
func (c *Client) Do(req *http.Request, v *types.Thing) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, &pkgerrs.TransportError{Operation: "rate limit wait", URL: req.URL.String(), Err: err}
	}

	if c.logger != nil {
		c.logger.Debug("issuing request", "method", req.Method, "url", req.URL.String())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &pkgerrs.TransportError{Operation: "request", URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debug("received response", "url", resp.Request.URL.String(), "status", resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, c.apiError(resp)
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return resp, &pkgerrs.ParseError{Operation: "decode response", Err: err}
		}
	}

	return resp, nil
}

// apiError reads Reddit's error envelope out of a non-success response.
// The envelope looks like {"message": "Not Found", "error": 404} with an
// optional "reason"; bodies that are not JSON are tolerated and the status
// code alone is reported.
func (c *Client) apiError(resp *http.Response) error {
	apiErr := &pkgerrs.APIError{
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Message = envelope.Message
		if envelope.Reason != "" {
			apiErr.Message = envelope.Reason
			if envelope.Message != "" {
				apiErr.Message = envelope.Message + ": " + envelope.Reason
			}
		}
	}

	return apiErr
}
