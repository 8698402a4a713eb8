package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceQuote is the pricing endpoint's answer for one variant.
type PriceQuote struct {
	// Price is the absolute variant price, not an increment.
	Price decimal.Decimal

	// Code is the variant's sub-reference.
	Code string
}

// PriceLookup resolves prices of selector-list variants that are not
// rendered on the product page.
type PriceLookup interface {
	// LookupPrice asks for the price of variantID of productID.
	// Returns ELOOKUP if the endpoint fails or answers an unexpected shape.
	LookupPrice(ctx context.Context, productID, variantID string) (*PriceQuote, error)
}
