package valueobject

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat controls how dates are rendered on client-facing documents
type DateFormat string

const (
	DateFormatMDY DateFormat = "MM/DD/YYYY"
	DateFormatDMY DateFormat = "DD/MM/YYYY"
)

// CountryConfig holds localization settings for a supported market
type CountryConfig struct {
	Code              string
	Name              string
	Currency          Currency
	CurrencySymbol    string
	TaxLabel          string
	DefaultTaxPercent float64
	TaxIDLabel        string
	TaxIDRequired     bool
	BankRoutingLabel  string
	DateFormat        DateFormat
}

// DefaultCountryCode is used when a profile has no country set
const DefaultCountryCode = "US"

var countries = map[string]CountryConfig{
	"US": {
		Code:              "US",
		Name:              "United States",
		Currency:          USD,
		CurrencySymbol:    "$",
		TaxLabel:          "Sales Tax",
		DefaultTaxPercent: 0,
		TaxIDLabel:        "Tax ID (EIN)",
		TaxIDRequired:     false,
		BankRoutingLabel:  "Routing Number",
		DateFormat:        DateFormatMDY,
	},
	"GB": {
		Code:              "GB",
		Name:              "United Kingdom",
		Currency:          GBP,
		CurrencySymbol:    "£",
		TaxLabel:          "VAT",
		DefaultTaxPercent: 20,
		TaxIDLabel:        "VAT Number",
		TaxIDRequired:     true,
		BankRoutingLabel:  "Sort Code",
		DateFormat:        DateFormatDMY,
	},
	"AU": {
		Code:              "AU",
		Name:              "Australia",
		Currency:          AUD,
		CurrencySymbol:    "A$",
		TaxLabel:          "GST",
		DefaultTaxPercent: 10,
		TaxIDLabel:        "ABN",
		TaxIDRequired:     true,
		BankRoutingLabel:  "BSB",
		DateFormat:        DateFormatDMY,
	},
	"CA": {
		Code:              "CA",
		Name:              "Canada",
		Currency:          CAD,
		CurrencySymbol:    "C$",
		TaxLabel:          "GST/HST",
		DefaultTaxPercent: 5,
		TaxIDLabel:        "GST/HST Number",
		TaxIDRequired:     false,
		BankRoutingLabel:  "Transit Number",
		DateFormat:        DateFormatDMY,
	},
	"IE": {
		Code:              "IE",
		Name:              "Ireland",
		Currency:          EUR,
		CurrencySymbol:    "€",
		TaxLabel:          "VAT",
		DefaultTaxPercent: 23,
		TaxIDLabel:        "VAT Number",
		TaxIDRequired:     true,
		BankRoutingLabel:  "IBAN",
		DateFormat:        DateFormatDMY,
	},
	"NZ": {
		Code:              "NZ",
		Name:              "New Zealand",
		Currency:          NZD,
		CurrencySymbol:    "NZ$",
		TaxLabel:          "GST",
		DefaultTaxPercent: 15,
		TaxIDLabel:        "GST Number",
		TaxIDRequired:     false,
		BankRoutingLabel:  "Bank Code",
		DateFormat:        DateFormatDMY,
	},
}

// CountryByCode returns the configuration for a country code,
// falling back to the default country for unknown codes
func CountryByCode(code string) CountryConfig {
	if c, ok := countries[code]; ok {
		return c
	}
	return countries[DefaultCountryCode]
}

// AllCountries returns the supported country configurations in a stable order
func AllCountries() []CountryConfig {
	codes := []string{"US", "GB", "IE", "CA", "AU", "NZ"}
	out := make([]CountryConfig, 0, len(codes))
	for _, code := range codes {
		out = append(out, countries[code])
	}
	return out
}

// IsSupportedCountry reports whether the code is a supported market
func IsSupportedCountry(code string) bool {
	_, ok := countries[code]
	return ok
}

// SupportedCountryCodes returns all supported country codes
func SupportedCountryCodes() []string {
	codes := make([]string, 0, len(countries))
	for code := range countries {
		codes = append(codes, code)
	}
	return codes
}

// CurrencySymbol resolves the display symbol for a currency code,
// falling back to the code itself for unknown currencies
func CurrencySymbol(currency Currency) string {
	for _, c := range countries {
		if c.Currency == currency {
			return c.CurrencySymbol
		}
	}
	return string(currency)
}

// FormatDate renders a date according to the country's date format
func (c CountryConfig) FormatDate(t time.Time) string {
	if c.DateFormat == DateFormatMDY {
		return fmt.Sprintf("%02d/%02d/%04d", t.Month(), t.Day(), t.Year())
	}
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), t.Month(), t.Year())
}

// FormatAmount renders a monetary amount with the country's currency symbol
func (c CountryConfig) FormatAmount(v decimal.Decimal) string {
	return c.CurrencySymbol + v.StringFixed(2)
}
