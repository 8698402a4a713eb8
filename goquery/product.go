package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catalog"
)

// Product page selectors.
const (
	referenceSelector   = "div.proj_code strong"
	titleSelector       = "div.projector_navigation h1"
	gallerySelector     = "div.photos"
	imageSelector       = "a.projector_medium_image"
	descriptionSelector = "#component_projector_longdescription"
	priceSelector       = "#projector_price_value"
)

// ExtractProduct reads the fields shared by every variant of a product page.
//
// Reference, title, category, gallery and price are required; their absence
// is reported as an EMISSING error naming the field. A page without a long
// description yields an empty description.
func ExtractProduct(doc *goquery.Document, site *catalog.Site) (*catalog.Product, error) {
	var err error
	p := &catalog.Product{}

	if p.Reference, err = extractReference(doc); err != nil {
		return nil, err
	}

	title := doc.Find(titleSelector).First()
	if title.Length() == 0 {
		return nil, catalog.MissingField("title")
	}
	p.Title = strings.TrimSpace(title.Text())

	if p.Category, err = catalog.ParseCategory(doc.Find("title").First().Text(), site.CategoryMarker, site.Name); err != nil {
		return nil, err
	}

	gallery := doc.Find(gallerySelector).First()
	if gallery.Length() == 0 {
		return nil, catalog.MissingField("images")
	}
	p.Images = []string{}
	gallery.Find(imageSelector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}
		if resolved, err := site.ResolveURL(href); err == nil {
			p.Images = append(p.Images, resolved)
		}
	})

	if p.Description, err = extractDescription(doc); err != nil {
		return nil, err
	}

	price := doc.Find(priceSelector).First()
	if price.Length() == 0 {
		return nil, catalog.MissingField("price")
	}
	if p.BasePrice, err = catalog.ParsePrice(price.Text()); err != nil {
		return nil, &catalog.Error{
			Code:    catalog.EMISSING,
			Field:   "price",
			Message: catalog.ErrorMessage(err),
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// extractReference returns the product code of a page.
func extractReference(doc *goquery.Document) (string, error) {
	ref := doc.Find(referenceSelector).First()
	if ref.Length() == 0 {
		return "", catalog.MissingField("reference")
	}
	return strings.TrimSpace(ref.Text()), nil
}

// extractDescription serializes the long description block with every
// newline replaced by a <br> marker.
func extractDescription(doc *goquery.Document) (string, error) {
	sel := doc.Find(descriptionSelector).First()
	if sel.Length() == 0 {
		return "", nil
	}
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", catalog.Errorf(catalog.EPARSE, "failed to render description: %v", err)
	}
	return strings.ReplaceAll(html, "\n", "<br>"), nil
}
