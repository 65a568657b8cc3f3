package valueobject

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar (default)
	GBP Currency = "GBP" // British Pound
	AUD Currency = "AUD" // Australian Dollar
	CAD Currency = "CAD" // Canadian Dollar
	EUR Currency = "EUR" // Euro
	NZD Currency = "NZD" // New Zealand Dollar
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = USD

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}
