package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/catalog"
)

// Ensure LoggingScraper implements catalog.ProductScraper.
var _ catalog.ProductScraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a ProductScraper and logs the detected shape,
// the variant count and every skipped variant.
type LoggingScraper struct {
	next   catalog.ProductScraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next catalog.ProductScraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// ScrapeProduct delegates to the wrapped scraper and logs the outcome.
func (s *LoggingScraper) ScrapeProduct(ctx context.Context, html string, pageURL string) (res *catalog.ScrapeResult, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.WarnContext(ctx, "scrape",
				"url", pageURL,
				"code", catalog.ErrorCode(err),
				"field", catalog.ErrorField(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		for _, skip := range res.Skipped {
			s.logger.WarnContext(ctx, "variant skipped",
				"url", pageURL,
				"reference", res.Product.Reference,
				"err", skip,
			)
		}
		s.logger.DebugContext(ctx, "scrape",
			"url", pageURL,
			"reference", res.Product.Reference,
			"shape", string(res.Shape),
			"variants", len(res.Variants),
			"skipped", len(res.Skipped),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.ScrapeProduct(ctx, html, pageURL)
}
