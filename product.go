package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// CategorySeparator separates breadcrumb segments in page titles.
const CategorySeparator = ` \ `

// Product holds the fields shared by every variant of a product page.
type Product struct {
	URL         string
	Reference   string
	Title       string
	Category    []string
	Images      []string
	Description string
	BasePrice   decimal.Decimal
}

// Validate returns an error if the product is missing a required field.
func (p *Product) Validate() error {
	if p.Reference == "" {
		return MissingField("reference")
	}
	if p.Title == "" {
		return MissingField("title")
	}
	return nil
}

// Variant is a purchasable option of a product.
type Variant struct {
	Price        decimal.Decimal
	Finish       string
	SubReference string
}

// DefaultVariant returns the variant used when a page exposes no options:
// the base price, no finish label and the product's own reference.
func DefaultVariant(p *Product) Variant {
	return Variant{
		Price:        p.BasePrice,
		SubReference: p.Reference,
	}
}

// Shape identifies which generation of variant markup a product page uses.
type Shape string

// Variant markup generations, in detection priority order.
const (
	ShapeNone         Shape = ""
	ShapeSelectorList Shape = "selector-list"
	ShapeBundle       Shape = "bundle"
	ShapeLegacy       Shape = "legacy"
)

// ScrapeResult is everything extracted from one product page.
type ScrapeResult struct {
	Product  *Product
	Variants []Variant
	Shape    Shape

	// Skipped holds per-variant failures. Sibling variants are unaffected.
	Skipped []error
}

// Rows returns one row per variant, in variant order.
func (r *ScrapeResult) Rows() []*Row {
	rows := make([]*Row, 0, len(r.Variants))
	for _, v := range r.Variants {
		rows = append(rows, NewRow(r.Product, v))
	}
	return rows
}

// ProductScraper turns a fetched product page into a product and its variants.
type ProductScraper interface {
	// ScrapeProduct parses html fetched from pageURL.
	// Returns an EMISSING error when a required product field is absent.
	// The result always carries at least one variant.
	ScrapeProduct(ctx context.Context, html string, pageURL string) (*ScrapeResult, error)
}

// ParseCategory derives breadcrumb segments from a page title such as
// `Long Throw \ Notre Offre \ Projectors \ Series X | SiteName`.
//
// The segments are taken after the last occurrence of marker and before the
// trailing " | siteName" suffix. A title without the marker is an error.
func ParseCategory(title, marker, siteName string) ([]string, error) {
	title = strings.TrimSpace(title)
	idx := strings.LastIndex(title, marker)
	if marker == "" || idx < 0 {
		return nil, MissingField("category")
	}
	s := strings.TrimSpace(title[idx+len(marker):])
	s = strings.TrimSpace(strings.TrimSuffix(s, "| "+siteName))
	if s == "" {
		return nil, MissingField("category")
	}

	var segments []string
	for _, seg := range strings.Split(s, CategorySeparator) {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments, nil
}
