package catalog

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// ParsePrice converts displayed price text such as " 1 234,50 €" into an amount.
//
// The text is NFKD-normalized first so that non-breaking and narrow spaces
// decompose into plain spaces. Currency signs and whitespace are dropped.
// When a comma is present it is the decimal separator and dots are thousands
// separators; otherwise a dot is taken as the decimal separator.
func ParsePrice(text string) (decimal.Decimal, error) {
	s := norm.NFKD.String(text)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	if s == "" {
		return decimal.Zero, Errorf(EMISSING, "empty price text %q", text)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, Errorf(EMISSING, "malformed price %q", text)
	}
	return d, nil
}

// ParsePriceDelta parses a signed surcharge such as "+15,50€" or "-3 €".
// A missing sign means a positive delta.
func ParsePriceDelta(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(norm.NFKD.String(text))
	negative := false
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"), strings.HasPrefix(s, "−"):
		negative = true
		s = strings.TrimLeft(s, "-−")
	}

	d, err := ParsePrice(s)
	if err != nil {
		return decimal.Zero, Errorf(EMISSING, "malformed price delta %q", text)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// FormatPrice renders an amount with two decimals and a comma separator,
// the way the spreadsheet's consumers expect it (e.g. "1234,50").
func FormatPrice(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
