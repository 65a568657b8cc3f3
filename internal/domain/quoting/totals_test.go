package quoting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeTotals_DiscountAndTax(t *testing.T) {
	totals := ComputeTotals(dec("100"), dec("10"), dec("20"))

	assert.True(t, dec("100").Equal(totals.Subtotal))
	assert.True(t, dec("90").Equal(totals.Net), "net = %s", totals.Net)
	assert.True(t, dec("18").Equal(totals.Tax), "tax = %s", totals.Tax)
	assert.True(t, dec("108").Equal(totals.Gross), "gross = %s", totals.Gross)
	assert.True(t, dec("10").Equal(totals.DiscountAmount()))
}

func TestComputeTotals_NoDiscountNoTax(t *testing.T) {
	totals := ComputeTotals(dec("250.50"), decimal.Zero, decimal.Zero)

	assert.True(t, dec("250.50").Equal(totals.Net))
	assert.True(t, decimal.Zero.Equal(totals.Tax))
	assert.True(t, dec("250.50").Equal(totals.Gross))
	assert.False(t, totals.HasDiscount())
	assert.False(t, totals.HasTax())
}

func TestComputeTotals_Rounding(t *testing.T) {
	// 33.33 with 15% discount: 33.33 * 0.85 = 28.3305 -> 28.33
	totals := ComputeTotals(dec("33.33"), dec("15"), dec("20"))

	assert.True(t, dec("28.33").Equal(totals.Net), "net = %s", totals.Net)
	// 28.33 * 0.20 = 5.666 -> 5.67
	assert.True(t, dec("5.67").Equal(totals.Tax), "tax = %s", totals.Tax)
	assert.True(t, dec("34.00").Equal(totals.Gross), "gross = %s", totals.Gross)
}

func TestComputeTotals_FullDiscount(t *testing.T) {
	totals := ComputeTotals(dec("80"), dec("100"), dec("20"))

	assert.True(t, totals.Net.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Gross.IsZero())
}
