// Package crawl walks the shop catalog page by page and turns every product
// page into output rows.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fwojciec/catalog"
)

// Error row prefixes written in place of product rows.
const (
	ParseErrorPrefix = "Error parsing product: "
	WriteErrorPrefix = "Error writing product: "
)

// Crawler processes catalog pages sequentially. Each product is fetched,
// scraped and written before the next one is attempted.
type Crawler struct {
	Site     *catalog.Site
	Fetcher  catalog.Fetcher
	Listings catalog.ListingParser
	Scraper  catalog.ProductScraper
	Sink     catalog.RowSink

	// Delay pauses after every product. Nil means no pause.
	Delay Delayer

	// Seen, when set, skips product links already visited in this run.
	Seen catalog.LinkFilter

	Logger *slog.Logger
}

// Run crawls catalog pages first through last-1.
//
// Failures of a single product or catalog page are logged and recorded and
// never stop the run. Invalid bounds, an unrecoverable sink and context
// cancellation are returned.
func (c *Crawler) Run(ctx context.Context, s *Session, first, last int) error {
	if err := catalog.ValidatePageRange(first, last); err != nil {
		return err
	}

	for page := first; page < last; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.crawlPage(ctx, s, page); err != nil {
			return err
		}
	}

	c.logger().InfoContext(ctx, "crawl finished", "session", s)
	return nil
}

// RunProduct scrapes a single product page, bypassing pagination.
func (c *Crawler) RunProduct(ctx context.Context, s *Session, url string) error {
	if err := c.crawlProduct(ctx, s, url); err != nil {
		return err
	}
	c.logger().InfoContext(ctx, "crawl finished", "session", s)
	return nil
}

func (c *Crawler) crawlPage(ctx context.Context, s *Session, page int) error {
	logger := c.logger()
	s.Page = page

	if ps, ok := c.Sink.(catalog.PageSink); ok {
		if err := ps.BeginPage(ctx, page); err != nil {
			return fmt.Errorf("begin page %d: %w", page, err)
		}
	}

	pageURL := c.Site.CatalogPageURL(page)
	logger.InfoContext(ctx, "parsing page", "page", page, "url", pageURL)

	html, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.ErrorContext(ctx, "cannot fetch catalog page", "page", page, "err", err)
		return nil
	}

	links, err := c.Listings.ProductLinks(html)
	if err != nil {
		logger.ErrorContext(ctx, "cannot parse catalog page", "page", page, "err", err)
		return nil
	}
	logger.InfoContext(ctx, "found products", "page", page, "count", len(links))

	for _, link := range links {
		if c.Seen != nil && c.Seen.Visit(link) {
			s.Duplicates++
			logger.DebugContext(ctx, "product already visited", "url", link)
			continue
		}
		if err := c.crawlProduct(ctx, s, link); err != nil {
			return err
		}
		if err := c.pause(ctx); err != nil {
			return err
		}
	}
	return nil
}

// crawlProduct writes one row per variant of the product at url, or a single
// error row when the product cannot be fetched or scraped. The returned error
// is fatal to the run.
func (c *Crawler) crawlProduct(ctx context.Context, s *Session, url string) error {
	logger := c.logger()
	logger.InfoContext(ctx, "parsing product", "index", s.Products, "url", url)
	s.Products++

	html, err := c.Fetcher.Fetch(ctx, url)
	if err != nil {
		return c.productFailed(ctx, s, url, err)
	}
	res, err := c.Scraper.ScrapeProduct(ctx, html, url)
	if err != nil {
		return c.productFailed(ctx, s, url, err)
	}
	s.Skipped += len(res.Skipped)

	for _, row := range res.Rows() {
		if err := c.Sink.AppendRow(ctx, row); err != nil {
			logger.ErrorContext(ctx, "cannot export product", "url", url, "sub_reference", row.SubReference, "err", err)
			if err := c.rowFailed(ctx, s, err); err != nil {
				return err
			}
			continue
		}
		s.Rows++
	}
	return nil
}

func (c *Crawler) productFailed(ctx context.Context, s *Session, url string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.Failed++
	c.logger().ErrorContext(ctx, "cannot parse product", "url", url, "code", catalog.ErrorCode(err), "err", err)
	return c.appendError(ctx, s, ParseErrorPrefix+catalog.ErrorMessage(err))
}

// rowFailed writes a write-error row in place of a row. When only some sinks
// of a MultiSink failed, the error row goes to those sinks alone.
func (c *Crawler) rowFailed(ctx context.Context, s *Session, err error) error {
	var partial *catalog.AppendRowError
	if errors.As(err, &partial) {
		return c.appendErrorTo(ctx, s, catalog.MultiSink(partial.Sinks...), WriteErrorPrefix+partial.Error())
	}
	return c.appendError(ctx, s, WriteErrorPrefix+catalog.ErrorMessage(err))
}

func (c *Crawler) appendError(ctx context.Context, s *Session, message string) error {
	return c.appendErrorTo(ctx, s, c.Sink, message)
}

func (c *Crawler) appendErrorTo(ctx context.Context, s *Session, sink catalog.RowSink, message string) error {
	if err := sink.AppendError(ctx, message); err != nil {
		return fmt.Errorf("output sink unusable: %w", err)
	}
	s.ErrorRows++
	return nil
}

func (c *Crawler) pause(ctx context.Context) error {
	d := c.Delay
	if d == nil {
		d = NoDelay
	}
	return d.Delay(ctx)
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
