// Package subfetch provides a typed Go client for Reddit's public subreddit
// listing endpoint.
//
// # Overview
//
// This package fetches public listing data anonymously: it issues a single
// GET against the subreddit's `.json` URL, decodes the listing envelope into
// typed domain objects, and returns them to the caller. There is no server,
// no caching, no persistence, and no authentication.
//
// # Features
//
//   - Anonymous access to public subreddit listings
//   - Typed wire shapes with explicit optional fields for schema drift
//   - A distinguishable error type per failure category
//   - Built-in request pacing via golang.org/x/time/rate
//   - Structured logging support via Go's slog package
//
// # Quick Start
//
//	client, err := subfetch.NewClient(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	listing, err := client.GetSubreddit(ctx, "golang", 25)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, post := range listing.Posts {
//		fmt.Printf("%s (score: %d)\n", post.Title, post.Score)
//	}
//
// Reddit asks API consumers to send a descriptive user agent. The convenience
// constructor renders the requested format:
//
//	client, err := subfetch.NewClientWithUserAgent("pc", "myapp", "1.0", "myusername")
//
// # Error Handling
//
// Every failure is returned as a typed error from the pkg/errors package, so
// calling code can branch on the failure category:
//
//	import pkgerrs "github.com/subfetch/subfetch/pkg/errors"
//
//	listing, err := client.GetSubreddit(ctx, "golang", 25)
//	if err != nil {
//		var apiErr *pkgerrs.APIError
//		var notFound *pkgerrs.SubredditNotFoundError
//		switch {
//		case errors.As(err, &notFound):
//			// the subreddit does not exist
//		case errors.As(err, &apiErr):
//			// Reddit rejected the request; apiErr.StatusCode and
//			// apiErr.Message carry the details
//		}
//	}
//
// No error is retried or swallowed internally, and a call never returns a
// partial listing.
//
// # Concurrency
//
// A Client holds only read-only configuration and a shared *http.Client, so
// one Client may serve many goroutines; concurrent calls are independent
// single-shot exchanges with no cross-call state.
package subfetch
