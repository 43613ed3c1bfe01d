package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"golang.org/x/time/rate"

	pkgerrs "github.com/subfetch/subfetch/pkg/errors"
	"github.com/subfetch/subfetch/pkg/types"
)

// fastRateConfig keeps tests from tripping over the default pacing.
var fastRateConfig = &RateLimitConfig{RequestsPerMinute: 60000, Burst: 1000}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		wantError bool
		wantPath  string
	}{
		{
			name:     "trailing slash preserved",
			baseURL:  "https://www.reddit.com/",
			wantPath: "/",
		},
		{
			name:     "trailing slash added",
			baseURL:  "https://www.reddit.com",
			wantPath: "/",
		},
		{
			name:      "relative URL rejected",
			baseURL:   "www.reddit.com",
			wantError: true,
		},
		{
			name:      "unparseable URL rejected",
			baseURL:   "://bad",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(nil, tt.baseURL, "test/1.0", nil, nil)

			if tt.wantError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				var cfgErr *pkgerrs.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("expected *ConfigError, got %T", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if client.BaseURL.Path != tt.wantPath {
				t.Errorf("BaseURL.Path = %q, want %q", client.BaseURL.Path, tt.wantPath)
			}
		})
	}
}

func TestNewRequest_SetsUserAgentAndResolvesPath(t *testing.T) {
	client, err := NewClient(nil, "https://www.reddit.com/", "pc:test:v1.0 (by /u/tester)", fastRateConfig, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	query := url.Values{}
	query.Set("limit", "25")

	req, err := client.NewRequest(context.Background(), http.MethodGet, "r/golang/.json", query)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}

	if got := req.URL.String(); got != "https://www.reddit.com/r/golang/.json?limit=25" {
		t.Errorf("request URL = %q", got)
	}
	if got := req.Header.Get("User-Agent"); got != "pc:test:v1.0 (by /u/tester)" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestDo_DecodesThing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"kind": "Listing", "data": {"children": []}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.Client(), server.URL, "test/1.0", fastRateConfig, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	req, err := client.NewRequest(context.Background(), http.MethodGet, "r/golang/.json", nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}

	var thing types.Thing
	if _, err := client.Do(req, &thing); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if thing.Kind != "Listing" {
		t.Errorf("thing.Kind = %q, want Listing", thing.Kind)
	}
}

func TestDo_APIErrorEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "message only",
			status:      http.StatusNotFound,
			body:        `{"message": "received 404 HTTP response", "error": 404}`,
			wantMessage: "received 404 HTTP response",
		},
		{
			name:        "message and reason",
			status:      http.StatusForbidden,
			body:        `{"message": "Forbidden", "reason": "private", "error": 403}`,
			wantMessage: "Forbidden: private",
		},
		{
			name:        "non-JSON body tolerated",
			status:      http.StatusBadGateway,
			body:        "<html>bad gateway</html>",
			wantMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(server.Client(), server.URL, "test/1.0", fastRateConfig, nil)
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}

			req, err := client.NewRequest(context.Background(), http.MethodGet, "r/golang/.json", nil)
			if err != nil {
				t.Fatalf("NewRequest() error = %v", err)
			}

			var thing types.Thing
			_, err = client.Do(req, &thing)
			if err == nil {
				t.Fatal("expected error but got none")
			}

			var apiErr *pkgerrs.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("apiErr.StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("apiErr.Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	// Grab a port that refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close()

	client, err := NewClient(nil, deadURL, "test/1.0", fastRateConfig, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	req, err := client.NewRequest(context.Background(), http.MethodGet, "r/golang/.json", nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}

	var thing types.Thing
	_, err = client.Do(req, &thing)
	if err == nil {
		t.Fatal("expected error but got none")
	}

	var transportErr *pkgerrs.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if thing.Kind != "" {
		t.Errorf("thing should be untouched on transport failure, got kind %q", thing.Kind)
	}
}

func TestDo_MalformedBodyIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>totally not JSON</html>`))
	}))
	defer server.Close()

	client, err := NewClient(server.Client(), server.URL, "test/1.0", fastRateConfig, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	req, err := client.NewRequest(context.Background(), http.MethodGet, "r/golang/.json", nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}

	var thing types.Thing
	_, err = client.Do(req, &thing)

	var parseErr *pkgerrs.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := NewClient(server.Client(), server.URL, "test/1.0", fastRateConfig, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	req, err := client.NewRequest(ctx, http.MethodGet, "r/golang/.json", nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}

	go func() {
		<-started
		cancel()
	}()

	var thing types.Thing
	_, err = client.Do(req, &thing)
	if err == nil {
		t.Fatal("expected error but got none")
	}

	var transportErr *pkgerrs.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in the chain, got %v", err)
	}
}

func TestBuildLimiter(t *testing.T) {
	tests := []struct {
		name      string
		cfg       RateLimitConfig
		wantLimit rate.Limit
		wantBurst int
	}{
		{
			name:      "defaults",
			cfg:       RateLimitConfig{},
			wantLimit: rate.Limit(1),
			wantBurst: DefaultRateLimitBurst,
		},
		{
			name:      "custom values",
			cfg:       RateLimitConfig{RequestsPerMinute: 120, Burst: 5},
			wantLimit: rate.Limit(2),
			wantBurst: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := buildLimiter(tt.cfg)

			if limiter.Limit() != tt.wantLimit {
				t.Errorf("limiter.Limit() = %v, want %v", limiter.Limit(), tt.wantLimit)
			}
			if limiter.Burst() != tt.wantBurst {
				t.Errorf("limiter.Burst() = %d, want %d", limiter.Burst(), tt.wantBurst)
			}
		})
	}
}

func TestDo_RateLimitWaitHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"kind": "Listing", "data": {"children": []}}`))
	}))
	defer server.Close()

	// One request per minute with no burst headroom after the first call.
	client, err := NewClient(server.Client(), server.URL, "test/1.0", &RateLimitConfig{RequestsPerMinute: 1, Burst: 1}, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	req, err := client.NewRequest(context.Background(), http.MethodGet, "r/golang/.json", nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	if _, err := client.Do(req, nil); err != nil {
		t.Fatalf("first Do() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req2, err := client.NewRequest(ctx, http.MethodGet, "r/golang/.json", nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}

	_, err = client.Do(req2, nil)
	if err == nil {
		t.Fatal("expected the limiter wait to fail under a short deadline")
	}

	var transportErr *pkgerrs.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
}
