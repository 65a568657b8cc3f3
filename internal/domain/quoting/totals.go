package quoting

import "github.com/shopspring/decimal"

// Totals is the derived financial summary of a quote or invoice.
// It is never stored authoritatively: given the same line items and
// percentages, recomputation must reproduce stored values to 2 decimal
// places. The dashboard, the PDF renderer and the email renderer all go
// through ComputeTotals.
type Totals struct {
	Subtotal decimal.Decimal
	Net      decimal.Decimal
	Tax      decimal.Decimal
	Gross    decimal.Decimal

	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// ComputeTotals derives net, tax and gross from a subtotal and the
// discount/tax percentages:
//
//	net   = subtotal * (1 - discount/100)
//	tax   = net * (tax/100)
//	gross = net + tax
//
// Each figure is rounded half-up to 2 decimal places.
func ComputeTotals(subtotal, discountPercent, taxPercent decimal.Decimal) Totals {
	subtotal = subtotal.Round(2)

	net := subtotal
	if discountPercent.IsPositive() {
		net = subtotal.Mul(hundred.Sub(discountPercent)).Div(hundred).Round(2)
	}

	tax := decimal.Zero
	if taxPercent.IsPositive() {
		tax = net.Mul(taxPercent).Div(hundred).Round(2)
	}

	return Totals{
		Subtotal:        subtotal,
		Net:             net,
		Tax:             tax,
		Gross:           net.Add(tax),
		DiscountPercent: discountPercent,
		TaxPercent:      taxPercent,
	}
}

// HasDiscount reports whether a discount line should be rendered.
// Zero or missing discount omits the line rather than rendering "0%".
func (t Totals) HasDiscount() bool {
	return t.DiscountPercent.IsPositive()
}

// HasTax reports whether a tax line should be rendered
func (t Totals) HasTax() bool {
	return t.TaxPercent.IsPositive()
}

// DiscountAmount is the absolute discount (subtotal - net)
func (t Totals) DiscountAmount() decimal.Decimal {
	return t.Subtotal.Sub(t.Net)
}
