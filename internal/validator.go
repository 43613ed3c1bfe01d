package internal

import (
	"fmt"

	pkgerrs "github.com/subfetch/subfetch/pkg/errors"
)

const (
	// maxUserAgentLength bounds the configured user-agent string.
	maxUserAgentLength = 256
)

// Validator checks client inputs before a request is built. It deliberately
// does not police subreddit naming rules; the server owns character-set
// validation and rejects bad names itself.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSubredditName rejects empty names. Anything else is sent to the
// server as-is.
func (v *Validator) ValidateSubredditName(name string) error {
	if name == "" {
		return &pkgerrs.ConfigError{Field: "subreddit", Message: "subreddit name cannot be empty"}
	}
	return nil
}

// ValidateLimit rejects negative limits. Values above Reddit's server-side
// ceiling are allowed; the server clamps them silently.
func (v *Validator) ValidateLimit(limit int) error {
	if limit < 0 {
		return &pkgerrs.ConfigError{Field: "limit", Message: fmt.Sprintf("limit cannot be negative, got %d", limit)}
	}
	return nil
}

// ValidateUserAgent rejects empty or oversized user-agent strings.
func (v *Validator) ValidateUserAgent(userAgent string) error {
	if userAgent == "" {
		return &pkgerrs.ConfigError{Field: "UserAgent", Message: "user agent cannot be empty"}
	}
	if len(userAgent) > maxUserAgentLength {
		return &pkgerrs.ConfigError{Field: "UserAgent", Message: fmt.Sprintf("user agent cannot exceed %d characters", maxUserAgentLength)}
	}
	return nil
}
