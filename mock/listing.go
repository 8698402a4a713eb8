package mock

import "github.com/fwojciec/catalog"

var _ catalog.ListingParser = (*ListingParser)(nil)

// ListingParser is a mock implementation of catalog.ListingParser.
type ListingParser struct {
	ProductLinksFn func(html string) ([]string, error)
}

func (p *ListingParser) ProductLinks(html string) ([]string, error) {
	return p.ProductLinksFn(html)
}
