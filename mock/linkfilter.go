package mock

import "github.com/fwojciec/catalog"

var _ catalog.LinkFilter = (*LinkFilter)(nil)

// LinkFilter is a mock implementation of catalog.LinkFilter.
type LinkFilter struct {
	VisitFn func(url string) bool
}

func (f *LinkFilter) Visit(url string) bool {
	return f.VisitFn(url)
}
