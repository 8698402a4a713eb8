package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catalog"
)

// Variant markup selectors.
const (
	selectorListSelector = "div.fancy-select"
	bundleItemSelector   = "a.projector_bundle_fake_item"
	versionsSelector     = "div.product_section.versions"
	versionsSubSelector  = "div.product_section_sub"
)

// selectorListItems returns the options of the first selector list only.
// Later fancy-select blocks are accessories, not variants of this product.
func selectorListItems(doc *goquery.Document) *goquery.Selection {
	return doc.Find(selectorListSelector).First().Find("li")
}

func bundleItems(doc *goquery.Document) *goquery.Selection {
	return doc.Find(bundleItemSelector)
}

// legacyItems returns the version links of the first sub block of the first
// versions section.
func legacyItems(doc *goquery.Document) *goquery.Selection {
	return doc.Find(versionsSelector).First().Find(versionsSubSelector).First().Find("a")
}

// DetectShape returns the variant shape of a parsed product page.
// When more than one shape is present the selector list wins, then the
// bundle items, then the legacy version links.
func DetectShape(doc *goquery.Document) catalog.Shape {
	switch {
	case selectorListItems(doc).Length() > 0:
		return catalog.ShapeSelectorList
	case bundleItems(doc).Length() > 0:
		return catalog.ShapeBundle
	case legacyItems(doc).Length() > 0:
		return catalog.ShapeLegacy
	}
	return catalog.ShapeNone
}
