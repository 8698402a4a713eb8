package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Row is the flattened join of a product and one of its variants.
type Row struct {
	Reference    string
	SubReference string
	Title        string
	Price        decimal.Decimal
	Finish       string
	Category     []string
	Images       []string
	Description  string
}

// NewRow joins a product with one of its variants.
func NewRow(p *Product, v Variant) *Row {
	return &Row{
		Reference:    p.Reference,
		SubReference: v.SubReference,
		Title:        p.Title,
		Price:        v.Price,
		Finish:       v.Finish,
		Category:     p.Category,
		Images:       p.Images,
		Description:  p.Description,
	}
}

// Columns lists the output column names in order. Rows are written header-less;
// the names are used by sinks that need them (e.g. archive schemas, previews).
var Columns = []string{
	"reference",
	"sub_reference",
	"title",
	"price",
	"finish",
	"category",
	"images",
	"description",
}

// Values returns the row as ordered output cells.
func (r *Row) Values() []string {
	return []string{
		r.Reference,
		r.SubReference,
		r.Title,
		FormatPrice(r.Price),
		r.Finish,
		FormatCategory(r.Category),
		strings.Join(r.Images, ", "),
		r.Description,
	}
}

// FormatCategory joins breadcrumb segments with ">".
func FormatCategory(segments []string) string {
	return strings.Join(segments, ">")
}
