package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/invoicing"
	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared/valueobject"
)

const (
	pageWidth    = 210.0
	leftMargin   = 20.0
	rightEdge    = 190.0
	contentWidth = rightEdge - leftMargin
)

// Brand color used for the header band and totals
var brandR, brandG, brandB = 30, 58, 95

type itemLine struct {
	name      string
	quantity  string
	unitPrice decimal.Decimal
	total     decimal.Decimal
}

// doc wraps gofpdf with the layout helpers shared by quotes and invoices
type doc struct {
	pdf     *gofpdf.Fpdf
	tr      func(string) string
	country valueobject.CountryConfig
}

func newDoc(country valueobject.CountryConfig) *doc {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetAutoPageBreak(true, 30)
	return &doc{
		pdf: p,
		// Core fonts are cp1252; the translator covers the currency
		// symbols, toASCII covers everything else.
		tr:      p.UnicodeTranslatorFromDescriptor(""),
		country: country,
	}
}

func (d *doc) amount(v decimal.Decimal) string {
	return d.tr(d.country.CurrencySymbol) + v.StringFixed(2)
}

func (d *doc) header(docType string) {
	d.pdf.AddPage()
	d.pdf.SetFillColor(brandR, brandG, brandB)
	d.pdf.Rect(0, 0, pageWidth, 30, "F")

	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont("Helvetica", "B", 20)
	d.pdf.Text(leftMargin, 20, "BrickQuote")

	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.Text(rightEdge-d.pdf.GetStringWidth(docType), 20, docType)
}

// parties renders the contractor and client columns
func (d *doc) parties(contractor []string, client []string) {
	y := 45.0
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.Text(leftMargin, y, "Contractor:")
	d.pdf.Text(120, y, "Client:")

	d.pdf.SetFont("Helvetica", "", 10)
	for i, line := range contractor {
		d.pdf.Text(leftMargin, y+6+float64(i)*6, toASCII(line))
	}
	for i, line := range client {
		d.pdf.Text(120, y+6+float64(i)*6, toASCII(line))
	}
}

func (d *doc) dates(entries []string) {
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(100, 100, 100)
	x := leftMargin
	for _, e := range entries {
		d.pdf.Text(x, 85, e)
		x += 60
	}
}

// itemTable renders the line items starting at y 100, paginating as needed
func (d *doc) itemTable(items []itemLine) {
	d.pdf.SetY(100)

	widths := []float64{80, 25, 32.5, 32.5}
	aligns := []string{"L", "C", "R", "R"}
	headers := []string{"Service", "Qty", "Unit Price", "Amount"}

	d.pdf.SetFillColor(brandR, brandG, brandB)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetX(leftMargin)
	for i, h := range headers {
		d.pdf.CellFormat(widths[i], 8, h, "", 0, aligns[i], true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetFont("Helvetica", "", 8)
	fill := false
	for _, item := range items {
		d.pdf.SetFillColor(243, 244, 246)
		d.pdf.SetX(leftMargin)
		cols := []string{
			toASCII(item.name),
			item.quantity,
			item.unitPrice.StringFixed(2),
			item.total.StringFixed(2),
		}
		for i, col := range cols {
			d.pdf.CellFormat(widths[i], 7, col, "", 0, aligns[i], fill, 0, "")
		}
		d.pdf.Ln(-1)
		fill = !fill
	}
}

// summaryRow writes one right-hand summary line and advances y
func (d *doc) summaryRow(y float64, label, value string) float64 {
	d.pdf.Text(120, y, label)
	d.pdf.Text(rightEdge-d.pdf.GetStringWidth(value), y, value)
	return y + 7
}

// summary renders totals below the table. Discount and tax rows render only
// when their percentages are non-zero.
func (d *doc) summary(t quoting.Totals, discountPercent, taxPercent decimal.Decimal) {
	y := d.pdf.GetY() + 12
	if y > 235 {
		d.pdf.AddPage()
		y = 25
	}

	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(0, 0, 0)
	y = d.summaryRow(y, "Subtotal:", d.amount(t.Subtotal))

	if discountPercent.IsPositive() {
		d.pdf.SetTextColor(220, 38, 38)
		y = d.summaryRow(y,
			fmt.Sprintf("Discount (%s%%):", discountPercent.String()),
			"-"+d.amount(t.Subtotal.Sub(t.Net)))
		d.pdf.SetTextColor(0, 0, 0)
	}
	if taxPercent.IsPositive() {
		y = d.summaryRow(y, "Net:", d.amount(t.Net))
		y = d.summaryRow(y,
			fmt.Sprintf("%s (%s%%):", d.country.TaxLabel, taxPercent.String()),
			d.amount(t.Tax))
	}

	y += 3
	d.pdf.SetDrawColor(brandR, brandG, brandB)
	d.pdf.SetLineWidth(0.5)
	d.pdf.Line(120, y-3, rightEdge, y-3)

	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.SetTextColor(brandR, brandG, brandB)
	d.summaryRow(y+2, "TOTAL:", d.amount(t.Gross))
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetY(y + 6)
}

// block renders a titled text block, breaking the page when too low
func (d *doc) block(title string, lines []string) {
	y := d.pdf.GetY() + 14
	if y > 240 {
		d.pdf.AddPage()
		y = 25
	}

	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Text(leftMargin, y, title)

	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetXY(leftMargin, y+2)
	for _, line := range lines {
		d.pdf.SetX(leftMargin)
		d.pdf.MultiCell(contentWidth, 5, toASCII(line), "", "L", false)
	}
}

func (d *doc) footer(docType, closing string) {
	pages := d.pdf.PageCount()
	d.pdf.SetPage(pages)

	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(brandR, brandG, brandB)
	d.pdf.Text(pageWidth/2-d.pdf.GetStringWidth(closing)/2, 265, closing)

	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.SetTextColor(150, 150, 150)
	line1 := docType + " generated by BrickQuote"
	d.pdf.Text(pageWidth/2-d.pdf.GetStringWidth(line1)/2, 280, line1)
}

func (d *doc) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}

func contractorLines(p *identity.Profile) []string {
	lines := []string{p.DisplayName()}
	if p.Phone != "" {
		lines = append(lines, "Phone: "+p.Phone)
	}
	if p.Email != "" {
		lines = append(lines, "Email: "+p.Email)
	}
	if p.TaxID != "" {
		lines = append(lines, p.Country().TaxIDLabel+": "+p.TaxID)
	}
	return lines
}

// RenderQuote produces the client-facing PDF for a quote
func RenderQuote(q *quoting.Quote, req *quoting.QuoteRequest, p *identity.Profile) ([]byte, error) {
	country := p.Country()
	d := newDoc(country)
	d.header("Quote")

	client := []string{req.ClientName}
	if req.ClientPhone != "" {
		client = append(client, "Phone: "+req.ClientPhone)
	}
	if req.ClientEmail != "" {
		client = append(client, "Email: "+req.ClientEmail)
	}
	d.parties(contractorLines(p), client)

	dates := []string{"Quote date: " + country.FormatDate(q.CreatedAt)}
	if q.ValidUntil != nil {
		dates = append(dates, "Valid until: "+country.FormatDate(*q.ValidUntil))
	}
	d.dates(dates)

	lines := make([]itemLine, 0, len(q.Items)+len(q.Materials))
	for _, item := range q.Items {
		lines = append(lines, itemLine{
			name:      item.ServiceName,
			quantity:  item.Quantity.String() + " " + item.Unit.String(),
			unitPrice: item.UnitPrice,
			total:     item.Total,
		})
	}
	for _, m := range q.Materials {
		lines = append(lines, itemLine{
			name:      m.Name,
			quantity:  m.Quantity.String(),
			unitPrice: m.UnitPrice,
			total:     m.Total,
		})
	}
	d.itemTable(lines)

	d.summary(q.Totals(), q.DiscountPercent, q.TaxPercent)

	if q.Notes != "" {
		d.block("Notes:", []string{q.Notes})
	}

	d.footer("Quote", "Thank you for your interest!")
	return d.output()
}

// RenderInvoice produces the client-facing PDF for an invoice
func RenderInvoice(inv *invoicing.Invoice, p *identity.Profile) ([]byte, error) {
	country := p.Country()
	d := newDoc(country)
	d.header("Invoice " + inv.InvoiceNumber)

	client := []string{inv.ClientName}
	if inv.ClientAddress != "" {
		client = append(client, inv.ClientAddress)
	}
	if inv.ClientEmail != "" {
		client = append(client, "Email: "+inv.ClientEmail)
	}
	d.parties(contractorLines(p), client)

	dates := []string{"Invoice date: " + country.FormatDate(inv.CreatedAt)}
	if inv.DueDate != nil {
		dates = append(dates, "Due date: "+country.FormatDate(*inv.DueDate))
	}
	if inv.Status == invoicing.InvoiceStatusPaid && inv.PaidAt != nil {
		dates = append(dates, "Paid: "+country.FormatDate(*inv.PaidAt))
	}
	d.dates(dates)

	lines := make([]itemLine, 0, len(inv.Items))
	for _, item := range inv.Items {
		lines = append(lines, itemLine{
			name:      item.ServiceName,
			quantity:  item.Quantity.String() + " " + item.Unit.String(),
			unitPrice: item.UnitPrice,
			total:     item.Total,
		})
	}
	d.itemTable(lines)

	d.summary(inv.Totals(), inv.DiscountPercent, inv.TaxPercent)

	bankName, bankAccount, bankRouting := inv.EffectiveBankDetails(p.BankName, p.BankAccount, p.BankRouting)
	if bankAccount != "" {
		bank := make([]string, 0, 3)
		if bankName != "" {
			bank = append(bank, "Bank: "+bankName)
		}
		bank = append(bank, "Account: "+bankAccount)
		if bankRouting != "" {
			bank = append(bank, country.BankRoutingLabel+": "+bankRouting)
		}
		d.block("Payment details:", bank)
	}

	if inv.Notes != "" {
		d.block("Notes:", []string{inv.Notes})
	}

	d.footer("Invoice", "Thank you for your business!")
	return d.output()
}
