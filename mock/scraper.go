package mock

import (
	"context"

	"github.com/fwojciec/catalog"
)

var _ catalog.ProductScraper = (*ProductScraper)(nil)

// ProductScraper is a mock implementation of catalog.ProductScraper.
type ProductScraper struct {
	ScrapeProductFn func(ctx context.Context, html string, pageURL string) (*catalog.ScrapeResult, error)
}

func (s *ProductScraper) ScrapeProduct(ctx context.Context, html string, pageURL string) (*catalog.ScrapeResult, error) {
	return s.ScrapeProductFn(ctx, html, pageURL)
}
