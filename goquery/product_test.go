package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractProduct(t *testing.T) {
	t.Parallel()

	t.Run("extracts shared product fields", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, productPage(""))

		p, err := goquery.ExtractProduct(doc, testSite())

		require.NoError(t, err)
		assert.Equal(t, "MX-100", p.Reference)
		assert.Equal(t, "Front Splitter V.1", p.Title)
		assert.Equal(t, []string{"Splitters", "Front"}, p.Category)
		assert.Equal(t, []string{
			"https://maxton.design/data/gfx/1.jpg",
			"https://maxton.design/data/gfx/2.jpg",
		}, p.Images)
		assert.True(t, decimal.NewFromInt(100).Equal(p.BasePrice))
	})

	t.Run("replaces newlines in the description with br markers", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, productPage(""))

		p, err := goquery.ExtractProduct(doc, testSite())

		require.NoError(t, err)
		assert.Equal(t, `<div id="component_projector_longdescription"><p>Line one<br>Line two</p></div>`, p.Description)
		assert.NotContains(t, p.Description, "\n")
	})

	t.Run("missing description is empty", func(t *testing.T) {
		t.Parallel()

		html := strings.Replace(productPage(""), `id="component_projector_longdescription"`, `id="other"`, 1)

		p, err := goquery.ExtractProduct(parse(t, html), testSite())

		require.NoError(t, err)
		assert.Empty(t, p.Description)
	})

	t.Run("normalizes a spaced price", func(t *testing.T) {
		t.Parallel()

		html := strings.Replace(productPage(""), "100,00 €", " 1 234,50 €", 1)

		p, err := goquery.ExtractProduct(parse(t, html), testSite())

		require.NoError(t, err)
		assert.Equal(t, "1234.50", p.BasePrice.StringFixed(2))
	})

	t.Run("gallery without images yields no images", func(t *testing.T) {
		t.Parallel()

		html := strings.ReplaceAll(productPage(""), "projector_medium_image", "thumb")

		p, err := goquery.ExtractProduct(parse(t, html), testSite())

		require.NoError(t, err)
		assert.Empty(t, p.Images)
	})

	t.Run("drops image link fragments", func(t *testing.T) {
		t.Parallel()

		html := strings.Replace(productPage(""), `href="/data/gfx/1.jpg"`, `href="/data/gfx/1.jpg#zoom"`, 1)

		p, err := goquery.ExtractProduct(parse(t, html), testSite())

		require.NoError(t, err)
		assert.Equal(t, "https://maxton.design/data/gfx/1.jpg", p.Images[0])
	})
}

func TestExtractProduct_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		old     string
		new     string
		wantFld string
	}{
		{"reference", `<div class="proj_code">Code: <strong>MX-100</strong></div>`, ``, "reference"},
		{"title", `<h1> Front Splitter V.1 </h1>`, ``, "title"},
		{"blank reference", `<strong>MX-100</strong>`, `<strong> </strong>`, "reference"},
		{"blank title", `<h1> Front Splitter V.1 </h1>`, `<h1>  </h1>`, "title"},
		{"category marker", `Notre Offre \ `, `Our Offer \ `, "category"},
		{"gallery", `class="photos"`, `class="gallery"`, "images"},
		{"price element", `id="projector_price_value"`, `id="price"`, "price"},
		{"malformed price", `100,00 €`, `Prix sur demande`, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := strings.Replace(productPage(""), tt.old, tt.new, 1)

			_, err := goquery.ExtractProduct(parse(t, html), testSite())

			require.Error(t, err)
			assert.Equal(t, catalog.EMISSING, catalog.ErrorCode(err))
			assert.Equal(t, tt.wantFld, catalog.ErrorField(err))
		})
	}
}
