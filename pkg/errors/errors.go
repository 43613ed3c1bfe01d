// Package errors defines the error types returned by the subreddit listing client.
//
// Every failure mode maps to exactly one type, so callers can branch on the
// failure category with errors.As:
//
//   - ConfigError: the client or a request argument was misconfigured
//   - TransportError: the HTTP round trip could not be completed
//   - APIError: Reddit rejected the request with a non-success status
//   - ParseError: the response body did not match the expected listing shape
//   - SubredditNotFoundError: Reddit redirected the request to subreddit search
package errors

import "fmt"

// ConfigError indicates a problem with the client configuration or with an
// argument passed to a client operation.
type ConfigError struct {
	// Field contains the name of the field that caused the error
	Field string
	// Message contains the detailed error message
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// TransportError indicates the HTTP request could not be completed: DNS
// failures, refused connections, timeouts, or a cancelled context. The body
// was never read and no parsing was attempted.
type TransportError struct {
	// Operation is the name of the client operation that failed
	Operation string
	// URL is the URL that was being accessed
	URL string
	// Err contains the underlying transport error
	Err error
}

func (e *TransportError) Error() string {
	if e.Operation != "" && e.URL != "" {
		return fmt.Sprintf("transport error during %s to %s: %v", e.Operation, e.URL, e.Err)
	} else if e.Operation != "" {
		return fmt.Sprintf("transport error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError indicates Reddit explicitly rejected the request with a
// non-success HTTP status. Message carries whatever the error envelope in the
// response body supplied, if anything.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int
	// Message contains the message from the API's error envelope, if present
	Message string
	// URL is the URL that was being accessed
	URL string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: status %d", e.StatusCode)
}

// ParseError indicates the response body did not decode into the expected
// listing shape: schema drift, an HTML error page, or a truncated body.
type ParseError struct {
	// Operation is the name of the client operation where parsing failed
	Operation string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying decode error if available
	Err error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Operation != "" {
		return fmt.Sprintf("parse error during %s: %s", e.Operation, msg)
	}
	return fmt.Sprintf("parse error: %s", msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SubredditNotFoundError indicates the requested subreddit does not exist.
// Reddit answers listing requests for unknown names with a redirect to
// subreddit search rather than a 404, and the client reports that as this
// error instead of returning the search results.
type SubredditNotFoundError struct {
	// Subreddit is the name that was requested
	Subreddit string
}

func (e *SubredditNotFoundError) Error() string {
	return fmt.Sprintf("subreddit %q not found", e.Subreddit)
}
