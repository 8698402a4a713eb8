package mock

import (
	"context"

	"github.com/fwojciec/catalog"
)

var _ catalog.PriceLookup = (*PriceLookup)(nil)

// PriceLookup is a mock implementation of catalog.PriceLookup.
type PriceLookup struct {
	LookupPriceFn func(ctx context.Context, productID, variantID string) (*catalog.PriceQuote, error)
}

func (l *PriceLookup) LookupPrice(ctx context.Context, productID, variantID string) (*catalog.PriceQuote, error) {
	return l.LookupPriceFn(ctx, productID, variantID)
}
