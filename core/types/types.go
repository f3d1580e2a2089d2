// Package types defines the value types shared by the ROI model, its
// formatters and its transports.
package types

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Symbol returns the display prefix for amounts in this currency
func (c Currency) Symbol() string {
	switch c {
	case CurrencyUSD, "":
		return "$"
	default:
		return string(c) + " "
	}
}
