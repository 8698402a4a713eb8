package catalog

// ListingParser discovers product detail links on a catalog page.
type ListingParser interface {
	// ProductLinks returns absolute product URLs in page order.
	ProductLinks(html string) ([]string, error)
}

// LinkFilter remembers product links across catalog pages.
type LinkFilter interface {
	// Visit records url and reports whether it was probably seen before.
	Visit(url string) bool
}
