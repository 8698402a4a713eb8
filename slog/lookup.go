package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/catalog"
)

// Ensure LoggingPriceLookup implements catalog.PriceLookup.
var _ catalog.PriceLookup = (*LoggingPriceLookup)(nil)

// LoggingPriceLookup wraps a PriceLookup with logging.
type LoggingPriceLookup struct {
	next   catalog.PriceLookup
	logger *slog.Logger
}

// NewLoggingPriceLookup creates a new LoggingPriceLookup.
func NewLoggingPriceLookup(next catalog.PriceLookup, logger *slog.Logger) *LoggingPriceLookup {
	return &LoggingPriceLookup{next: next, logger: logger}
}

// LookupPrice delegates to the wrapped lookup and logs the quote.
func (l *LoggingPriceLookup) LookupPrice(ctx context.Context, productID, variantID string) (quote *catalog.PriceQuote, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"product", productID,
			"variant", variantID,
			"duration", time.Since(begin),
		}
		if quote != nil {
			attrs = append(attrs, "price", quote.Price.String(), "code", quote.Code)
		}
		attrs = append(attrs, "err", err)
		l.logger.Log(ctx, levelFor(err), "price lookup", attrs...)
	}(time.Now())
	return l.next.LookupPrice(ctx, productID, variantID)
}
