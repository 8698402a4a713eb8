// Package rod renders catalog pages in headless Chrome for sites that build
// their variant markup with JavaScript.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/catalog"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements catalog.Fetcher at compile time.
var _ catalog.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser   *browser
	timeout   time.Duration
	userAgent string
	maxPages  int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each Fetch call.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxPages sets how many pages are rendered before Chrome is relaunched.
// Zero disables relaunching.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	b, err := newBrowser(f.maxPages)
	if err != nil {
		return nil, catalog.Errorf(catalog.EFETCH, "%v", err)
	}
	f.browser = b
	return f, nil
}

// Fetch navigates to url, waits for the load event and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b, ok := f.browser.acquire()
	if !ok {
		return "", catalog.Errorf(catalog.EINVALID, "fetcher is closed")
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", catalog.Errorf(catalog.EFETCH, "failed to open page for %s: %v", url, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", catalog.Errorf(catalog.EFETCH, "failed to set user agent: %v", err)
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", f.fetchError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", f.fetchError(ctx, url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", f.fetchError(ctx, url, err)
	}
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.browser.close()
}

// LauncherPID returns the process ID of the Chrome launcher, or 0 after Close.
func (f *Fetcher) LauncherPID() int {
	return f.browser.pid()
}

// fetchError surfaces context errors unchanged so callers can tell a
// cancelled run from a failing page.
func (f *Fetcher) fetchError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return catalog.Errorf(catalog.EFETCH, "failed to render %s: %v", url, err)
}
