package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Catalog page bounds accepted on the command line.
const (
	MinCatalogPage = 0
	MaxCatalogPage = 56
)

// Defaults for the target site.
const (
	DefaultBaseURL             = "https://maxton.design"
	DefaultListingPath         = "/fre_m_Notre-Offre-1876.html"
	DefaultCategoryMarker      = `Notre Offre \ `
	DefaultProductLinkSelector = "a.product-name, a.product_wrapper_hover"
)

// Site describes the crawled shop.
type Site struct {
	// BaseURL is the scheme and host, e.g. "https://maxton.design".
	BaseURL string `yaml:"base_url"`

	// Name is the display name appended to page titles (" | Name").
	Name string `yaml:"name"`

	// CategoryMarker is the breadcrumb root literal in page titles.
	CategoryMarker string `yaml:"category_marker"`

	// ListingPath is the paginated catalog path; pages use ?counter=N.
	ListingPath string `yaml:"listing_path"`

	// ProductLinkSelector matches product anchors on a catalog page.
	ProductLinkSelector string `yaml:"product_link_selector"`
}

// NewSite returns a Site for baseURL with default markup settings.
// The display name is derived from the host ("maxton.design" → "maxton-design").
func NewSite(baseURL string) *Site {
	s := &Site{BaseURL: baseURL}
	s.SetDefaults()
	return s
}

// SetDefaults fills empty fields with defaults.
func (s *Site) SetDefaults() {
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	if s.Name == "" {
		if u, err := url.Parse(s.BaseURL); err == nil {
			s.Name = strings.ReplaceAll(strings.TrimPrefix(u.Hostname(), "www."), ".", "-")
		}
	}
	if s.CategoryMarker == "" {
		s.CategoryMarker = DefaultCategoryMarker
	}
	if s.ListingPath == "" {
		s.ListingPath = DefaultListingPath
	}
	if s.ProductLinkSelector == "" {
		s.ProductLinkSelector = DefaultProductLinkSelector
	}
}

// Validate returns an error if the site cannot be crawled.
func (s *Site) Validate() error {
	if s.BaseURL == "" {
		return Errorf(EINVALID, "site base URL required")
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Errorf(EINVALID, "invalid site base URL %q", s.BaseURL)
	}
	return nil
}

// CatalogPageURL returns the listing URL for a page number.
func (s *Site) CatalogPageURL(page int) string {
	return s.BaseURL + s.ListingPath + "?counter=" + strconv.Itoa(page)
}

// ResolveURL resolves href against the site base URL. The fragment is
// dropped so that links to the same page compare equal.
func (s *Site) ResolveURL(href string) (string, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid site base URL %q", s.BaseURL)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", Errorf(EINVALID, "invalid link %q", href)
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String(), nil
}

// ValidatePageRange checks an operator-supplied [first, last) page window.
func ValidatePageRange(first, last int) error {
	for _, n := range []int{first, last} {
		if n < MinCatalogPage || n > MaxCatalogPage {
			return Errorf(EINVALID, "invalid page %d: must be between %d and %d", n, MinCatalogPage, MaxCatalogPage)
		}
	}
	if first > last {
		return Errorf(EINVALID, "invalid page range: %d > %d", first, last)
	}
	return nil
}
