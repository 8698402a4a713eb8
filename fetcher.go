package catalog

import "context"

// Fetcher retrieves raw page bodies from URLs.
type Fetcher interface {
	// Fetch issues a GET for url and returns the decoded body.
	// Failures are reported with the EFETCH code.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
