package enums

import (
	"slices"
	"strings"
)

// Currency is the settlement currency of a payment method.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyVES Currency = "VES"
)

var currencies = []Currency{CurrencyUSD, CurrencyVES}

func (c Currency) String() string { return string(c) }

func (c Currency) IsValid() bool { return slices.Contains(currencies, c) }

// ParseCurrency accepts the ISO code in any case.
func ParseCurrency(value string) (Currency, error) {
	return parse(currencies, strings.ToUpper(strings.TrimSpace(value)), "currency")
}
