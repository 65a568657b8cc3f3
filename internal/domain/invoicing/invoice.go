package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent
	case InvoiceStatusSent:
		return target == InvoiceStatusPaid
	case InvoiceStatusPaid:
		return false // Terminal state
	}
	return false
}

// Invoice is a billable document, optionally derived from an accepted quote.
// Lifecycle: draft → sent → paid. Reminder sends do not change status; they
// increment a counter.
type Invoice struct {
	shared.ContractorAggregateRoot
	QuoteID         *uuid.UUID
	InvoiceNumber   string
	ClientName      string
	ClientEmail     string
	ClientAddress   string
	Items           []quoting.QuoteItem
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	Subtotal        decimal.Decimal
	TotalNet        decimal.Decimal
	TotalTax        decimal.Decimal
	TotalGross      decimal.Decimal
	Notes           string
	DueDate         *time.Time

	// Bank-detail overrides; profile values apply when empty
	BankName    string
	BankAccount string
	BankRouting string

	Status        InvoiceStatus
	ReminderCount int
	Token         string
	SentAt        *time.Time
	PaidAt        *time.Time
}

// NewInvoice creates a draft invoice
func NewInvoice(contractorID uuid.UUID, invoiceNumber, clientName string) (*Invoice, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	return &Invoice{
		ContractorAggregateRoot: shared.NewContractorAggregateRoot(contractorID),
		InvoiceNumber:           invoiceNumber,
		ClientName:              clientName,
		Items:                   make([]quoting.QuoteItem, 0),
		DiscountPercent:         decimal.Zero,
		TaxPercent:              decimal.Zero,
		Status:                  InvoiceStatusDraft,
		Token:                   shared.NewDocumentToken(),
	}, nil
}

// NewInvoiceFromQuote creates a draft invoice carrying over an accepted
// quote's line items and percentages
func NewInvoiceFromQuote(quote *quoting.Quote, invoiceNumber, clientName, clientEmail string) (*Invoice, error) {
	if quote.Status != quoting.QuoteStatusAccepted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only accepted quotes can be invoiced")
	}
	inv, err := NewInvoice(quote.ContractorID, invoiceNumber, clientName)
	if err != nil {
		return nil, err
	}
	inv.QuoteID = &quote.ID
	inv.ClientEmail = strings.ToLower(strings.TrimSpace(clientEmail))
	inv.Items = append(inv.Items, quote.Items...)
	for _, m := range quote.Materials {
		inv.Items = append(inv.Items, quoting.QuoteItem{
			ServiceName: m.Name,
			Quantity:    m.Quantity,
			Unit:        quoting.UnitPiece,
			UnitPrice:   m.UnitPrice,
			Total:       m.Total,
		})
	}
	inv.DiscountPercent = quote.DiscountPercent
	inv.TaxPercent = quote.TaxPercent
	inv.recompute()
	return inv, nil
}

// IsEditable reports whether the invoice content can still be changed
func (i *Invoice) IsEditable() bool {
	return i.Status == InvoiceStatusDraft
}

// SetItems replaces the line items and recomputes totals
func (i *Invoice) SetItems(items []quoting.QuoteItem) error {
	if !i.IsEditable() {
		return shared.ErrInvalidState
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "An invoice needs at least one line item")
	}
	if len(items) > 100 {
		return shared.NewDomainError("INVALID_ITEMS", "An invoice cannot have more than 100 line items")
	}
	i.Items = items
	i.recompute()
	return nil
}

// SetPercentages sets discount and tax percentages and recomputes totals
func (i *Invoice) SetPercentages(discountPercent, taxPercent decimal.Decimal) error {
	if !i.IsEditable() {
		return shared.ErrInvalidState
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100 percent")
	}
	if taxPercent.IsNegative() || taxPercent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX", "Tax must be between 0 and 100 percent")
	}
	i.DiscountPercent = discountPercent
	i.TaxPercent = taxPercent
	i.recompute()
	return nil
}

// SetClientDetails updates the billed party
func (i *Invoice) SetClientDetails(name, email, address string) error {
	if !i.IsEditable() {
		return shared.ErrInvalidState
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	i.ClientName = name
	i.ClientEmail = strings.ToLower(strings.TrimSpace(email))
	i.ClientAddress = strings.TrimSpace(address)
	i.Touch()
	return nil
}

// SetNotes sets the free-text notes shown to the client
func (i *Invoice) SetNotes(notes string) error {
	if !i.IsEditable() {
		return shared.ErrInvalidState
	}
	i.Notes = strings.TrimSpace(notes)
	i.Touch()
	return nil
}

// SetDueDate sets the payment due date
func (i *Invoice) SetDueDate(due *time.Time) error {
	if !i.IsEditable() {
		return shared.ErrInvalidState
	}
	i.DueDate = due
	i.Touch()
	return nil
}

// SetBankDetails sets invoice-level payment details overriding the profile
func (i *Invoice) SetBankDetails(bankName, bankAccount, bankRouting string) error {
	if !i.IsEditable() {
		return shared.ErrInvalidState
	}
	i.BankName = strings.TrimSpace(bankName)
	i.BankAccount = strings.TrimSpace(bankAccount)
	i.BankRouting = strings.TrimSpace(bankRouting)
	i.Touch()
	return nil
}

// EffectiveBankDetails resolves payment details for rendering: invoice-level
// overrides win, otherwise the profile defaults apply as a set.
func (i *Invoice) EffectiveBankDetails(profileBankName, profileBankAccount, profileBankRouting string) (bankName, bankAccount, bankRouting string) {
	if i.BankAccount != "" {
		return i.BankName, i.BankAccount, i.BankRouting
	}
	return profileBankName, profileBankAccount, profileBankRouting
}

func (i *Invoice) recompute() {
	subtotal := decimal.Zero
	for _, item := range i.Items {
		subtotal = subtotal.Add(item.Total)
	}
	t := quoting.ComputeTotals(subtotal, i.DiscountPercent, i.TaxPercent)
	i.Subtotal = t.Subtotal
	i.TotalNet = t.Net
	i.TotalTax = t.Tax
	i.TotalGross = t.Gross
	i.Touch()
}

// Totals re-derives the financial summary from the stored line items
func (i *Invoice) Totals() quoting.Totals {
	subtotal := decimal.Zero
	for _, item := range i.Items {
		subtotal = subtotal.Add(item.Total)
	}
	return quoting.ComputeTotals(subtotal, i.DiscountPercent, i.TaxPercent)
}

// Send transitions the invoice from draft to sent
func (i *Invoice) Send() error {
	if !i.Status.CanTransitionTo(InvoiceStatusSent) {
		return shared.ErrInvalidState
	}
	if len(i.Items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Cannot send an invoice without line items")
	}
	now := time.Now()
	i.Status = InvoiceStatusSent
	i.SentAt = &now
	i.UpdatedAt = now
	return nil
}

// MarkPaid records client payment. Only sent invoices can be marked paid.
func (i *Invoice) MarkPaid() error {
	if !i.Status.CanTransitionTo(InvoiceStatusPaid) {
		return shared.ErrInvalidState
	}
	now := time.Now()
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
	i.UpdatedAt = now
	return nil
}

// RecordReminder increments the reminder counter. Reminders are only
// meaningful for sent invoices and never change the status.
func (i *Invoice) RecordReminder() error {
	if i.Status != InvoiceStatusSent {
		return shared.ErrInvalidState
	}
	i.ReminderCount++
	i.Touch()
	return nil
}

// OverdueDays returns the number of whole days past the due date at the
// given time, or 0 when not overdue or without a due date
func (i *Invoice) OverdueDays(now time.Time) int {
	if i.DueDate == nil {
		return 0
	}
	days := int(now.Sub(*i.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// NextInvoiceNumber produces a sequential display number like "INV-2026-0007"
func NextInvoiceNumber(year int, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}
