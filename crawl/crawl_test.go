package crawl_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/crawl"
	"github.com/fwojciec/catalog/goquery"
	"github.com/fwojciec/catalog/mock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><body>
<a class="product-name" href="https://maxton.design/fre_m_Splitter-1.html">Splitter</a>
<a class="product-name" href="https://maxton.design/fre_m_Spoiler-2.html">Spoiler</a>
</body></html>`

const splitterPage = `<html>
<head><title>Notre Offre \ Splitters \ Front | maxton-design</title></head>
<body>
<div class="projector_navigation"><h1>Front Splitter</h1></div>
<div class="proj_code"><strong>MX-1</strong></div>
<div class="photos"><a class="projector_medium_image" href="/1.jpg"></a></div>
<strong id="projector_price_value">100,00 €</strong>
<div class="fancy-select"><ul>
	<li class="selected" data-title="Gloss Black" data-product="1" data-values_id="10"></li>
	<li data-title="Carbon" data-product="1" data-values_id="11"></li>
</ul></div>
</body></html>`

// spoilerPage has no title heading.
const spoilerPage = `<html>
<head><title>Notre Offre \ Spoilers | maxton-design</title></head>
<body>
<div class="proj_code"><strong>MX-2</strong></div>
<div class="photos"></div>
<strong id="projector_price_value">50,00 €</strong>
</body></html>`

// newCrawler wires the real extractors to a fake site.
func newCrawler(pages map[string]string, sink catalog.RowSink) (*crawl.Crawler, *[]string) {
	site := catalog.NewSite("https://maxton.design")
	var fetched []string
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			fetched = append(fetched, url)
			if html, ok := pages[url]; ok {
				return html, nil
			}
			return "", catalog.Errorf(catalog.EFETCH, "HTTP 404 for %s", url)
		},
	}
	prices := &mock.PriceLookup{
		LookupPriceFn: func(_ context.Context, productID, variantID string) (*catalog.PriceQuote, error) {
			return &catalog.PriceQuote{Price: decimal.RequireFromString("129.90"), Code: "MX-1-C"}, nil
		},
	}
	return &crawl.Crawler{
		Site:     site,
		Fetcher:  fetcher,
		Listings: goquery.NewListingParser(site),
		Scraper:  goquery.NewScraper(site, fetcher, prices),
		Sink:     sink,
	}, &fetched
}

func TestCrawler_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes variant rows and error rows and moves on to the next page", func(t *testing.T) {
		t.Parallel()

		site := catalog.NewSite("https://maxton.design")
		pages := map[string]string{
			site.CatalogPageURL(0):                       listingPage,
			site.CatalogPageURL(1):                       `<html><body></body></html>`,
			"https://maxton.design/fre_m_Splitter-1.html": splitterPage,
			"https://maxton.design/fre_m_Spoiler-2.html":  spoilerPage,
		}
		sink := &mock.RecordingSink{}
		c, fetched := newCrawler(pages, sink)
		s := crawl.NewSession(testTime)

		err := c.Run(context.Background(), s, 0, 2)

		require.NoError(t, err)
		require.Len(t, sink.Lines, 3)
		assert.Equal(t, []string{"MX-1", "MX-1", "Front Splitter", "100,00", "Gloss Black", "Splitters>Front", "https://maxton.design/1.jpg", ""}, sink.Lines[0])
		assert.Equal(t, []string{"MX-1", "MX-1-C", "Front Splitter", "129,90", "Carbon", "Splitters>Front", "https://maxton.design/1.jpg", ""}, sink.Lines[1])
		assert.Equal(t, []string{`Error parsing product: missing field "title"`}, sink.Lines[2])

		assert.Contains(t, *fetched, site.CatalogPageURL(1), "next catalog page must still be crawled")
		assert.Equal(t, []int{0, 1}, sink.Pages)
		assert.Equal(t, 2, s.Products)
		assert.Equal(t, 2, s.Rows)
		assert.Equal(t, 1, s.Failed)
		assert.Equal(t, 1, s.ErrorRows)
		assert.Equal(t, 1, s.Page)
	})

	t.Run("pages are half-open", func(t *testing.T) {
		t.Parallel()

		sink := &mock.RecordingSink{}
		c, fetched := newCrawler(map[string]string{}, sink)

		err := c.Run(context.Background(), crawl.NewSession(testTime), 3, 5)

		require.NoError(t, err)
		assert.Equal(t, []string{
			c.Site.CatalogPageURL(3),
			c.Site.CatalogPageURL(4),
		}, *fetched)
	})

	t.Run("rejects invalid bounds before fetching", func(t *testing.T) {
		t.Parallel()

		c, fetched := newCrawler(map[string]string{}, &mock.RecordingSink{})

		err := c.Run(context.Background(), crawl.NewSession(testTime), 5, 2)

		require.Error(t, err)
		assert.Equal(t, catalog.EINVALID, catalog.ErrorCode(err))
		assert.Empty(t, *fetched)
	})

	t.Run("fetch failure of a product writes an error row", func(t *testing.T) {
		t.Parallel()

		site := catalog.NewSite("https://maxton.design")
		sink := &mock.RecordingSink{}
		c, _ := newCrawler(map[string]string{site.CatalogPageURL(0): listingPage}, sink)
		s := crawl.NewSession(testTime)

		err := c.Run(context.Background(), s, 0, 1)

		require.NoError(t, err)
		require.Len(t, sink.Lines, 2)
		for _, line := range sink.Lines {
			require.Len(t, line, 1)
			assert.True(t, strings.HasPrefix(line[0], crawl.ParseErrorPrefix+"HTTP 404"), line[0])
		}
		assert.Equal(t, 2, s.Failed)
	})

	t.Run("skips product links already visited", func(t *testing.T) {
		t.Parallel()

		site := catalog.NewSite("https://maxton.design")
		pages := map[string]string{
			site.CatalogPageURL(0):                       listingPage,
			site.CatalogPageURL(1):                       listingPage,
			"https://maxton.design/fre_m_Splitter-1.html": splitterPage,
			"https://maxton.design/fre_m_Spoiler-2.html":  spoilerPage,
		}
		sink := &mock.RecordingSink{}
		c, _ := newCrawler(pages, sink)
		visited := map[string]bool{}
		c.Seen = &mock.LinkFilter{
			VisitFn: func(url string) bool {
				seen := visited[url]
				visited[url] = true
				return seen
			},
		}
		s := crawl.NewSession(testTime)

		err := c.Run(context.Background(), s, 0, 2)

		require.NoError(t, err)
		assert.Len(t, sink.Lines, 3)
		assert.Equal(t, 2, s.Duplicates)
	})

	t.Run("pauses after every product", func(t *testing.T) {
		t.Parallel()

		site := catalog.NewSite("https://maxton.design")
		c, _ := newCrawler(map[string]string{site.CatalogPageURL(0): listingPage}, &mock.RecordingSink{})
		pauses := 0
		c.Delay = crawl.DelayFunc(func(context.Context) error {
			pauses++
			return nil
		})

		err := c.Run(context.Background(), crawl.NewSession(testTime), 0, 1)

		require.NoError(t, err)
		assert.Equal(t, 2, pauses)
	})

	t.Run("row write failure is replaced by an error row", func(t *testing.T) {
		t.Parallel()

		site := catalog.NewSite("https://maxton.design")
		pages := map[string]string{
			site.CatalogPageURL(0):                       `<a class="product-name" href="/fre_m_Splitter-1.html"></a>`,
			"https://maxton.design/fre_m_Splitter-1.html": splitterPage,
		}
		var errorRows []string
		sink := &mock.RowSink{
			AppendRowFn: func(context.Context, *catalog.Row) error {
				return errors.New("workbook locked")
			},
			AppendErrorFn: func(_ context.Context, message string) error {
				errorRows = append(errorRows, message)
				return nil
			},
		}
		c, _ := newCrawler(pages, sink)
		s := crawl.NewSession(testTime)

		err := c.Run(context.Background(), s, 0, 1)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"Error writing product: workbook locked",
			"Error writing product: workbook locked",
		}, errorRows)
		assert.Equal(t, 0, s.Rows)
		assert.Equal(t, 2, s.ErrorRows)
	})

	t.Run("error row goes only to the sink that lost the row", func(t *testing.T) {
		t.Parallel()

		site := catalog.NewSite("https://maxton.design")
		pages := map[string]string{
			site.CatalogPageURL(0):                       `<a class="product-name" href="/fre_m_Splitter-1.html"></a>`,
			"https://maxton.design/fre_m_Splitter-1.html": splitterPage,
		}
		healthy := &mock.RecordingSink{}
		var errorRows []string
		locked := &mock.RowSink{
			AppendRowFn: func(context.Context, *catalog.Row) error {
				return errors.New("workbook locked")
			},
			AppendErrorFn: func(_ context.Context, message string) error {
				errorRows = append(errorRows, message)
				return nil
			},
		}
		c, _ := newCrawler(pages, catalog.MultiSink(healthy, locked))
		s := crawl.NewSession(testTime)

		err := c.Run(context.Background(), s, 0, 1)

		require.NoError(t, err)
		require.Len(t, healthy.Lines, 2)
		assert.Equal(t, "MX-1", healthy.Lines[0][1])
		assert.Equal(t, "MX-1-C", healthy.Lines[1][1])
		assert.Equal(t, []string{
			"Error writing product: workbook locked",
			"Error writing product: workbook locked",
		}, errorRows)
		assert.Equal(t, 2, s.ErrorRows)
	})

	t.Run("aborts when the error row cannot be written either", func(t *testing.T) {
		t.Parallel()

		site := catalog.NewSite("https://maxton.design")
		pages := map[string]string{
			site.CatalogPageURL(0): `<a class="product-name" href="/missing.html"></a>`,
			site.CatalogPageURL(1): listingPage,
		}
		sink := &mock.RowSink{
			AppendErrorFn: func(context.Context, string) error {
				return errors.New("disk full")
			},
		}
		c, fetched := newCrawler(pages, sink)

		err := c.Run(context.Background(), crawl.NewSession(testTime), 0, 2)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.NotContains(t, *fetched, site.CatalogPageURL(1))
	})

	t.Run("unparseable catalog page is skipped", func(t *testing.T) {
		t.Parallel()

		site := catalog.NewSite("https://maxton.design")
		sink := &mock.RecordingSink{}
		c, _ := newCrawler(map[string]string{
			site.CatalogPageURL(0):                       "broken",
			site.CatalogPageURL(1):                       listingPage,
			"https://maxton.design/fre_m_Splitter-1.html": splitterPage,
		}, sink)
		c.Listings = &mock.ListingParser{
			ProductLinksFn: func(html string) ([]string, error) {
				if html == "broken" {
					return nil, catalog.Errorf(catalog.EPARSE, "no listing")
				}
				return []string{"https://maxton.design/fre_m_Splitter-1.html"}, nil
			},
		}
		s := crawl.NewSession(testTime)

		err := c.Run(context.Background(), s, 0, 2)

		require.NoError(t, err)
		assert.Len(t, sink.Lines, 2)
		assert.Equal(t, 1, s.Products)
	})

	t.Run("begin page failure aborts the run", func(t *testing.T) {
		t.Parallel()

		site := catalog.NewSite("https://maxton.design")
		var begun []int
		sink := &mock.PageSink{
			BeginPageFn: func(_ context.Context, page int) error {
				begun = append(begun, page)
				if page == 1 {
					return errors.New("cannot create workbook")
				}
				return nil
			},
		}
		c, fetched := newCrawler(map[string]string{}, sink)

		err := c.Run(context.Background(), crawl.NewSession(testTime), 0, 3)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot create workbook")
		assert.Equal(t, []int{0, 1}, begun)
		assert.Equal(t, []string{site.CatalogPageURL(0)}, *fetched)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		site := catalog.NewSite("https://maxton.design")
		c, fetched := newCrawler(map[string]string{site.CatalogPageURL(0): listingPage}, &mock.RecordingSink{})
		ctx, cancel := context.WithCancel(context.Background())
		c.Delay = crawl.DelayFunc(func(ctx context.Context) error {
			cancel()
			return ctx.Err()
		})

		err := c.Run(ctx, crawl.NewSession(testTime), 0, 3)

		require.ErrorIs(t, err, context.Canceled)
		assert.Len(t, *fetched, 2, "catalog page and first product only")
	})
}

func TestCrawler_RunProduct(t *testing.T) {
	t.Parallel()

	sink := &mock.RecordingSink{}
	c, fetched := newCrawler(map[string]string{"https://maxton.design/fre_m_Splitter-1.html": splitterPage}, sink)
	s := crawl.NewSession(testTime)

	err := c.RunProduct(context.Background(), s, "https://maxton.design/fre_m_Splitter-1.html")

	require.NoError(t, err)
	assert.Equal(t, []string{"https://maxton.design/fre_m_Splitter-1.html"}, *fetched)
	assert.Len(t, sink.Lines, 2)
	assert.Equal(t, 1, s.Products)
}
