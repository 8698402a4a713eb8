// Package bloom remembers visited product links using a Bloom filter.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/catalog"
)

// DefaultCapacity covers every product of a full catalog crawl.
const DefaultCapacity = 20000

// DefaultFalsePositiveRate is the accepted chance of skipping a new product.
const DefaultFalsePositiveRate = 0.0001

var _ catalog.LinkFilter = (*Filter)(nil)

// Filter is a catalog.LinkFilter backed by a Bloom filter.
// A false positive skips a product that was never scraped; there are no false negatives.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected links
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Visit adds url to the filter and reports whether it might have been there already.
func (f *Filter) Visit(url string) bool {
	return f.f.TestAndAddString(url)
}

