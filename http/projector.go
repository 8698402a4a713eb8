package http

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/fwojciec/catalog"
	"github.com/shopspring/decimal"
)

// ProjectorPath is the shop's pricing endpoint.
const ProjectorPath = "/ajax/projector.php"

// Ensure PriceClient implements catalog.PriceLookup at compile time.
var _ catalog.PriceLookup = (*PriceClient)(nil)

// PriceClient asks the shop's projector endpoint for variant prices.
// Requests go through Fetcher so they share its rate limiting and logging.
type PriceClient struct {
	Fetcher catalog.Fetcher
	BaseURL string
}

// NewPriceClient creates a PriceClient for the shop at baseURL.
func NewPriceClient(fetcher catalog.Fetcher, baseURL string) *PriceClient {
	return &PriceClient{
		Fetcher: fetcher,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// LookupURL returns the endpoint URL for a variant.
// The bracketed parameter names are sent literally, as the shop expects.
func (c *PriceClient) LookupURL(productID, variantID string) string {
	vid := url.QueryEscape(variantID)
	return c.BaseURL + ProjectorPath +
		"?product=" + url.QueryEscape(productID) +
		"&size=uniw&get=sizes,sizeprices" +
		"&multiversions[selected]=" + vid +
		"&multiversions[last_selected]=" + vid
}

// projectorResponse is the subset of the endpoint's answer that is used.
type projectorResponse struct {
	SizePrices *struct {
		Value json.Number `json:"value"`
	} `json:"sizeprices"`
	Sizes *struct {
		Code string `json:"code"`
	} `json:"sizes"`
}

// LookupPrice fetches and decodes the price of one variant.
// The answered value is the absolute variant price. Any failure is ELOOKUP.
func (c *PriceClient) LookupPrice(ctx context.Context, productID, variantID string) (*catalog.PriceQuote, error) {
	u := c.LookupURL(productID, variantID)
	body, err := c.Fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, catalog.Errorf(catalog.ELOOKUP, "price lookup for %s/%s: %s", productID, variantID, catalog.ErrorMessage(err))
	}
	return DecodeQuote(body)
}

// DecodeQuote parses a projector endpoint response.
// The price value is accepted as a JSON string or number.
func DecodeQuote(body string) (*catalog.PriceQuote, error) {
	var resp projectorResponse
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, catalog.Errorf(catalog.ELOOKUP, "malformed price response: %v", err)
	}
	if resp.SizePrices == nil || resp.SizePrices.Value == "" {
		return nil, catalog.Errorf(catalog.ELOOKUP, "price response without sizeprices.value")
	}
	if resp.Sizes == nil || strings.TrimSpace(resp.Sizes.Code) == "" {
		return nil, catalog.Errorf(catalog.ELOOKUP, "price response without sizes.code")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(resp.SizePrices.Value.String()))
	if err != nil {
		return nil, catalog.Errorf(catalog.ELOOKUP, "malformed price value %q", resp.SizePrices.Value)
	}
	return &catalog.PriceQuote{
		Price: price,
		Code:  strings.TrimSpace(resp.Sizes.Code),
	}, nil
}
