package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catalog"
	"github.com/stretchr/testify/require"
)

// productPage renders a product page with the given variant markup.
func productPage(variants string) string {
	return `<!DOCTYPE html>
<html>
<head><title>Tuning \ Notre Offre \ Splitters \ Front | maxton-design</title></head>
<body>
<div class="projector_navigation"><h1> Front Splitter V.1 </h1></div>
<div class="proj_code">Code: <strong>MX-100</strong></div>
<div class="photos">
	<a class="projector_medium_image" href="/data/gfx/1.jpg">1</a>
	<a class="projector_medium_image" href="/data/gfx/2.jpg">2</a>
</div>
<strong id="projector_price_value">100,00 €</strong>
` + variants + `
<div id="component_projector_longdescription"><p>Line one
Line two</p></div>
</body>
</html>`
}

func parse(t *testing.T, html string) *gq.Document {
	t.Helper()

	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func testSite() *catalog.Site {
	return catalog.NewSite("https://maxton.design")
}
