package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catalog"
)

var _ catalog.ListingParser = (*ListingParser)(nil)

// ListingParser extracts product links from catalog pages.
type ListingParser struct {
	Site *catalog.Site
}

// NewListingParser creates a ListingParser for site.
func NewListingParser(site *catalog.Site) *ListingParser {
	return &ListingParser{Site: site}
}

// ProductLinks returns the absolute URLs of every anchor matching the site's
// product link selector. Relative hrefs are resolved against the site base URL.
// Links are deduplicated and keep the order of their first occurrence.
func (p *ListingParser) ProductLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, catalog.Errorf(catalog.EPARSE, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find(p.Site.ProductLinkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}

		// Skip non-HTTP links (javascript:, mailto:, etc.)
		if isNonHTTPLink(href) {
			return
		}

		resolved, err := p.Site.ResolveURL(href)
		if err != nil {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links, nil
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
