package goquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catalog"
)

var _ catalog.ProductScraper = (*Scraper)(nil)

// Scraper extracts products and their variants from product pages.
type Scraper struct {
	Site *catalog.Site

	// Fetcher follows legacy version links to read their product codes.
	Fetcher catalog.Fetcher

	// Prices resolves selector-list variants that are not priced on the page.
	Prices catalog.PriceLookup

	// Converter, when set, replaces the HTML description with its conversion.
	Converter catalog.Converter
}

// NewScraper creates a Scraper for site.
func NewScraper(site *catalog.Site, fetcher catalog.Fetcher, prices catalog.PriceLookup) *Scraper {
	return &Scraper{
		Site:    site,
		Fetcher: fetcher,
		Prices:  prices,
	}
}

// ScrapeProduct parses html once, extracts the product and then its variants.
// Variant failures are collected in the result and never fail the product.
func (s *Scraper) ScrapeProduct(ctx context.Context, html string, pageURL string) (*catalog.ScrapeResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, catalog.Errorf(catalog.EPARSE, "failed to parse HTML: %v", err)
	}

	product, err := ExtractProduct(doc, s.Site)
	if err != nil {
		return nil, err
	}
	product.URL = pageURL

	if s.Converter != nil {
		if product.Description, err = s.convertDescription(doc); err != nil {
			return nil, err
		}
	}

	variants, shape, skipped := s.ExtractVariants(ctx, doc, product)
	return &catalog.ScrapeResult{
		Product:  product,
		Variants: variants,
		Shape:    shape,
		Skipped:  skipped,
	}, nil
}

func (s *Scraper) convertDescription(doc *goquery.Document) (string, error) {
	sel := doc.Find(descriptionSelector).First()
	if sel.Length() == 0 {
		return "", nil
	}
	html, err := sel.Html()
	if err != nil {
		return "", catalog.Errorf(catalog.EPARSE, "failed to render description: %v", err)
	}
	md, err := s.Converter.Convert(html)
	if err != nil {
		return "", catalog.Errorf(catalog.EPARSE, "failed to convert description: %v", err)
	}
	return md, nil
}

// ExtractVariants returns the variants of product in document order along with
// the detected markup shape and the variants that had to be skipped.
//
// The result always holds at least one variant: pages without variant markup,
// and pages whose every variant failed, yield the product's default variant.
func (s *Scraper) ExtractVariants(ctx context.Context, doc *goquery.Document, product *catalog.Product) ([]catalog.Variant, catalog.Shape, []error) {
	shape := DetectShape(doc)

	var variants []catalog.Variant
	var skipped []error
	switch shape {
	case catalog.ShapeSelectorList:
		variants, skipped = s.selectorListVariants(ctx, doc, product)
	case catalog.ShapeBundle:
		variants, skipped = bundleVariants(doc, product)
	case catalog.ShapeLegacy:
		variants, skipped = s.legacyVariants(ctx, doc, product)
	}

	if len(variants) == 0 {
		variants = []catalog.Variant{catalog.DefaultVariant(product)}
	}
	return variants, shape, skipped
}

// selectorListVariants reads "fancy select" option items. The selected item
// is priced on the page; every other item is priced by the pricing endpoint.
func (s *Scraper) selectorListVariants(ctx context.Context, doc *goquery.Document, product *catalog.Product) ([]catalog.Variant, []error) {
	var variants []catalog.Variant
	var skipped []error
	selectorListItems(doc).Each(func(_ int, sel *goquery.Selection) {
		label := strings.TrimSpace(sel.AttrOr("data-title", ""))
		if sel.HasClass("selected") {
			variants = append(variants, catalog.Variant{
				Price:        product.BasePrice,
				Finish:       label,
				SubReference: product.Reference,
			})
			return
		}

		v, err := s.lookupVariant(ctx, sel, label)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("variant %q: %w", label, err))
			return
		}
		variants = append(variants, v)
	})
	return variants, skipped
}

func (s *Scraper) lookupVariant(ctx context.Context, sel *goquery.Selection, label string) (catalog.Variant, error) {
	productID := strings.TrimSpace(sel.AttrOr("data-product", ""))
	if productID == "" {
		return catalog.Variant{}, catalog.MissingField("data-product")
	}
	variantID := strings.TrimSpace(sel.AttrOr("data-values_id", ""))
	if variantID == "" {
		return catalog.Variant{}, catalog.MissingField("data-values_id")
	}
	if s.Prices == nil {
		return catalog.Variant{}, catalog.Errorf(catalog.ELOOKUP, "no price lookup configured")
	}

	quote, err := s.Prices.LookupPrice(ctx, productID, variantID)
	if err != nil {
		return catalog.Variant{}, err
	}
	return catalog.Variant{
		Price:        quote.Price,
		Finish:       label,
		SubReference: quote.Code,
	}, nil
}

// bundleVariants reads bundle items. The selected item carries the base price;
// the others display a signed surcharge added to it.
func bundleVariants(doc *goquery.Document, product *catalog.Product) ([]catalog.Variant, []error) {
	var variants []catalog.Variant
	var skipped []error
	bundleItems(doc).Each(func(_ int, sel *goquery.Selection) {
		label := strings.TrimSpace(sel.Find("div.fake_name").First().Text())
		v := catalog.Variant{
			Price:        product.BasePrice,
			Finish:       label,
			SubReference: product.Reference,
		}
		if !sel.HasClass("selected") {
			text := sel.Find("div.fake_price").First()
			if text.Length() == 0 {
				skipped = append(skipped, fmt.Errorf("variant %q: %w", label, catalog.MissingField("fake_price")))
				return
			}
			delta, err := catalog.ParsePriceDelta(text.Text())
			if err != nil {
				skipped = append(skipped, fmt.Errorf("variant %q: %w", label, err))
				return
			}
			v.Price = product.BasePrice.Add(delta)
		}
		variants = append(variants, v)
	})
	return variants, skipped
}

// legacyVariants reads version links. The active link is the current page;
// every other link is fetched to read its product code. Legacy pages do not
// expose per-version prices here, so the base price is reused.
func (s *Scraper) legacyVariants(ctx context.Context, doc *goquery.Document, product *catalog.Product) ([]catalog.Variant, []error) {
	var variants []catalog.Variant
	var skipped []error
	legacyItems(doc).Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Find("div.version_name").First().Text())
		if sel.HasClass("active") {
			variants = append(variants, catalog.Variant{
				Price:        product.BasePrice,
				Finish:       name,
				SubReference: product.Reference,
			})
			return
		}

		label := strings.TrimSpace(sel.AttrOr("title", ""))
		if label == "" {
			label = name
		}
		ref, err := s.followVersion(ctx, sel)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("variant %q: %w", label, err))
			return
		}
		variants = append(variants, catalog.Variant{
			Price:        product.BasePrice,
			Finish:       label,
			SubReference: ref,
		})
	})
	return variants, skipped
}

func (s *Scraper) followVersion(ctx context.Context, sel *goquery.Selection) (string, error) {
	href := strings.TrimSpace(sel.AttrOr("href", ""))
	if href == "" {
		return "", catalog.MissingField("href")
	}
	if s.Fetcher == nil {
		return "", catalog.Errorf(catalog.EFETCH, "no fetcher configured")
	}
	link, err := s.Site.ResolveURL(href)
	if err != nil {
		return "", err
	}

	html, err := s.Fetcher.Fetch(ctx, link)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", catalog.Errorf(catalog.EPARSE, "failed to parse HTML: %v", err)
	}
	return extractReference(doc)
}
