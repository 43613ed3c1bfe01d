package subfetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/subfetch/subfetch/internal"
	pkgerrs "github.com/subfetch/subfetch/pkg/errors"
	"github.com/subfetch/subfetch/pkg/types"
)

const (
	// DefaultBaseURL is the default Reddit base URL for public listings.
	DefaultBaseURL = "https://www.reddit.com/"
	// DefaultUserAgent is the default user agent string.
	DefaultUserAgent = "pc:subfetch:v0.1.0 (by /u/deleted)"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// searchRedirectPath is where Reddit sends listing requests for
	// subreddit names it cannot find.
	searchRedirectPath = "/subreddits/search"
)

// Config holds the configuration for the listing client. All fields are
// optional; zero values fall back to the defaults above. The configuration is
// read-only after NewClient returns.
type Config struct {
	// UserAgent string to identify your application to Reddit.
	// Should follow format: "platform:app-name:version by /u/username"
	UserAgent string

	// BaseURL for the Reddit listing API.
	// Defaults to DefaultBaseURL if not specified. Usually doesn't need to be changed.
	BaseURL string

	// HTTPClient to use for requests. This is the shared transport handle:
	// it is reused across calls for connection pooling and must be safe for
	// concurrent use (http.Client is). Defaults to a client with
	// DefaultTimeout if not specified.
	HTTPClient *http.Client

	// Logger for structured diagnostics.
	// Optional. If provided, debug information will be logged during API calls.
	Logger *slog.Logger

	// RateLimit controls client-side request pacing.
	// Optional. Defaults to 60 requests per minute with a burst of 10.
	RateLimit *RateLimitConfig
}

// RateLimitConfig controls how requests are paced before reaching Reddit.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. Defaults to 60 if zero.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 10 if zero.
	Burst int
}

// HTTPClient defines the behavior required from the internal HTTP client.
// This interface allows for easy testing and customization of HTTP behavior.
type HTTPClient interface {
	// NewRequest creates a new HTTP request with the configured user agent.
	// The path is relative to the configured base URL.
	NewRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error)

	// Do executes an HTTP request and decodes the response into a Thing
	// envelope. The returned response has its body already consumed; it is
	// provided so callers can inspect the final URL after redirects.
	Do(req *http.Request, v *types.Thing) (*http.Response, error)
}

// Client is the subreddit listing client. It holds only read-only
// configuration and the shared transport handle, so a single Client may be
// used from many goroutines at once; concurrent calls are independent
// single-shot request/response exchanges.
//
// Example usage:
//
//	client, err := subfetch.NewClient(nil)
//	if err != nil {
//		return err
//	}
//
//	listing, err := client.GetSubreddit(ctx, "golang", 25)
type Client struct {
	client    HTTPClient
	config    *Config
	parser    *internal.Parser
	validator *internal.Validator
}

// NewClient creates a new listing client with the provided configuration.
// A nil config is treated as all-defaults.
//
// Returns a *pkg/errors.ConfigError if the base URL cannot be parsed or the
// user agent is unusable. No network traffic is issued; the client is
// stateless and needs no connect step.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}

	// Set defaults
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}

	validator := internal.NewValidator()
	if err := validator.ValidateUserAgent(config.UserAgent); err != nil {
		return nil, err
	}

	var rateCfg *internal.RateLimitConfig
	if config.RateLimit != nil {
		rateCfg = &internal.RateLimitConfig{
			RequestsPerMinute: config.RateLimit.RequestsPerMinute,
			Burst:             config.RateLimit.Burst,
		}
	}

	httpClient, err := internal.NewClient(config.HTTPClient, config.BaseURL, config.UserAgent, rateCfg, config.Logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		client:    httpClient,
		config:    config,
		parser:    internal.NewParser(),
		validator: validator,
	}, nil
}

// NewClientWithUserAgent creates a client whose user agent follows the format
// Reddit asks API consumers to use:
//
//	platform:appID:vVERSION (by /u/username)
//
// See https://github.com/reddit-archive/reddit/wiki/API#rules.
func NewClientWithUserAgent(platform, appID, appVersion, username string) (*Client, error) {
	userAgent := fmt.Sprintf("%s:%s:v%s (by /u/%s)", platform, appID, appVersion, username)
	return NewClient(&Config{UserAgent: userAgent})
}

// GetSubreddit retrieves up to limit posts from the named subreddit's public
// listing. The posts are returned in the order the API delivered them.
//
// Parameters:
//   - name: the subreddit name without the "r/" prefix (e.g., "golang").
//     Must be non-empty; character-set correctness is left to the server.
//   - limit: the desired maximum number of posts. Zero means the server
//     default (usually 25). Values above Reddit's ceiling (100) are sent
//     unmodified and clamped silently by the server.
//
// Exactly one network round trip is issued per call; there are no retries and
// no caching. Cancelling ctx while the call is in flight abandons the request.
//
// Returns an error distinguishable by type:
//   - *pkg/errors.ConfigError for an empty name or negative limit
//   - *pkg/errors.TransportError when the round trip cannot be completed
//   - *pkg/errors.SubredditNotFoundError when Reddit redirects to search
//   - *pkg/errors.APIError for a non-success HTTP status
//   - *pkg/errors.ParseError when the body does not match the listing shape
//
// On failure no partial result is returned.
func (c *Client) GetSubreddit(ctx context.Context, name string, limit int) (*types.Subreddit, error) {
	if err := c.validator.ValidateSubredditName(name); err != nil {
		return nil, err
	}
	if err := c.validator.ValidateLimit(limit); err != nil {
		return nil, err
	}

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	req, err := c.client.NewRequest(ctx, http.MethodGet, "r/"+name+"/.json", query)
	if err != nil {
		return nil, err
	}

	var thing types.Thing
	resp, err := c.client.Do(req, &thing)
	if resp != nil && redirectedToSearch(resp) {
		// Reddit answers unknown subreddit names with a redirect to
		// subreddit search instead of a 404.
		return nil, &pkgerrs.SubredditNotFoundError{Subreddit: name}
	}
	if err != nil {
		return nil, err
	}

	listing, err := c.parser.ParseListing(&thing)
	if err != nil {
		return nil, err
	}

	posts, err := c.parser.ExtractPosts(listing)
	if err != nil {
		return nil, err
	}

	return &types.Subreddit{
		Name:           name,
		Posts:          posts,
		AfterFullname:  listing.AfterFullname,
		BeforeFullname: listing.BeforeFullname,
	}, nil
}

// redirectedToSearch reports whether the response ended up at Reddit's
// subreddit search endpoint after following redirects.
func redirectedToSearch(resp *http.Response) bool {
	if resp.Request == nil || resp.Request.URL == nil {
		return false
	}
	return strings.HasPrefix(resp.Request.URL.Path, searchRedirectPath)
}
