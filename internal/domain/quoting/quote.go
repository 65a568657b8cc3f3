package quoting

import (
	"strings"
	"time"

	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusSent
	case QuoteStatusSent:
		return target == QuoteStatusAccepted || target == QuoteStatusRejected
	case QuoteStatusAccepted, QuoteStatusRejected:
		return false // Terminal states
	}
	return false
}

// QuoteItem is a priced line of work on a quote
type QuoteItem struct {
	ServiceName string          `json:"service_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        ServiceUnit     `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// NewQuoteItem creates a line item with the total derived from
// quantity * unit price
func NewQuoteItem(serviceName string, quantity decimal.Decimal, unit ServiceUnit, unitPrice decimal.Decimal) (QuoteItem, error) {
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return QuoteItem{}, shared.NewDomainError("INVALID_ITEM", "Item name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return QuoteItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !unit.IsValid() {
		return QuoteItem{}, shared.NewDomainError("INVALID_UNIT", "Unknown service unit")
	}
	if unitPrice.IsNegative() {
		return QuoteItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return QuoteItem{
		ServiceName: serviceName,
		Quantity:    quantity,
		Unit:        unit,
		UnitPrice:   unitPrice,
		Total:       quantity.Mul(unitPrice).Round(2),
	}, nil
}

// QuoteMaterial is a billed material line on a quote
type QuoteMaterial struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// NewQuoteMaterial creates a material line with the total derived from
// quantity * unit price
func NewQuoteMaterial(name string, quantity, unitPrice decimal.Decimal) (QuoteMaterial, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return QuoteMaterial{}, shared.NewDomainError("INVALID_MATERIAL", "Material name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return QuoteMaterial{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return QuoteMaterial{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return QuoteMaterial{
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     quantity.Mul(unitPrice).Round(2),
	}, nil
}

// Quote is a priced proposal for a quote request. Lifecycle:
// draft → sent → accepted/rejected. The viewed timestamp is an orthogonal
// flag set on first client view of a sent quote, not a state.
type Quote struct {
	shared.ContractorAggregateRoot
	RequestID       uuid.UUID
	Items           []QuoteItem
	Materials       []QuoteMaterial
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	Subtotal        decimal.Decimal
	TotalNet        decimal.Decimal
	TotalTax        decimal.Decimal
	TotalGross      decimal.Decimal
	Notes           string
	ValidUntil      *time.Time
	Status          QuoteStatus
	Token           string
	SentAt          *time.Time
	ViewedAt        *time.Time
	AcceptedAt      *time.Time
}

// NewQuote creates a draft quote for a request
func NewQuote(contractorID, requestID uuid.UUID) (*Quote, error) {
	if requestID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUEST", "Request ID cannot be empty")
	}
	return &Quote{
		ContractorAggregateRoot: shared.NewContractorAggregateRoot(contractorID),
		RequestID:               requestID,
		Items:                   make([]QuoteItem, 0),
		Materials:               make([]QuoteMaterial, 0),
		DiscountPercent:         decimal.Zero,
		TaxPercent:              decimal.Zero,
		Status:                  QuoteStatusDraft,
		Token:                   shared.NewDocumentToken(),
	}, nil
}

// IsEditable reports whether the quote content can still be changed
func (q *Quote) IsEditable() bool {
	return q.Status == QuoteStatusDraft
}

// SetItems replaces the line items and recomputes totals
func (q *Quote) SetItems(items []QuoteItem) error {
	if !q.IsEditable() {
		return shared.ErrInvalidState
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "A quote needs at least one line item")
	}
	if len(items) > 100 {
		return shared.NewDomainError("INVALID_ITEMS", "A quote cannot have more than 100 line items")
	}
	q.Items = items
	q.recompute()
	return nil
}

// SetMaterials replaces the material lines and recomputes totals
func (q *Quote) SetMaterials(materials []QuoteMaterial) error {
	if !q.IsEditable() {
		return shared.ErrInvalidState
	}
	if len(materials) > 100 {
		return shared.NewDomainError("INVALID_MATERIALS", "A quote cannot have more than 100 material lines")
	}
	q.Materials = materials
	q.recompute()
	return nil
}

// SetPercentages sets the discount and tax percentages and recomputes totals
func (q *Quote) SetPercentages(discountPercent, taxPercent decimal.Decimal) error {
	if !q.IsEditable() {
		return shared.ErrInvalidState
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100 percent")
	}
	if taxPercent.IsNegative() || taxPercent.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX", "Tax must be between 0 and 100 percent")
	}
	q.DiscountPercent = discountPercent
	q.TaxPercent = taxPercent
	q.recompute()
	return nil
}

// SetNotes sets the free-text notes shown to the client
func (q *Quote) SetNotes(notes string) error {
	if !q.IsEditable() {
		return shared.ErrInvalidState
	}
	q.Notes = strings.TrimSpace(notes)
	q.Touch()
	return nil
}

// SetValidUntil sets the quote expiry date
func (q *Quote) SetValidUntil(validUntil *time.Time) error {
	if !q.IsEditable() {
		return shared.ErrInvalidState
	}
	q.ValidUntil = validUntil
	q.Touch()
	return nil
}

// recompute re-derives stored totals from the line items
func (q *Quote) recompute() {
	subtotal := decimal.Zero
	for _, item := range q.Items {
		subtotal = subtotal.Add(item.Total)
	}
	for _, m := range q.Materials {
		subtotal = subtotal.Add(m.Total)
	}
	t := ComputeTotals(subtotal, q.DiscountPercent, q.TaxPercent)
	q.Subtotal = t.Subtotal
	q.TotalNet = t.Net
	q.TotalTax = t.Tax
	q.TotalGross = t.Gross
	q.Touch()
}

// Totals re-derives the financial summary from the stored line items
func (q *Quote) Totals() Totals {
	subtotal := decimal.Zero
	for _, item := range q.Items {
		subtotal = subtotal.Add(item.Total)
	}
	for _, m := range q.Materials {
		subtotal = subtotal.Add(m.Total)
	}
	return ComputeTotals(subtotal, q.DiscountPercent, q.TaxPercent)
}

// Send transitions the quote from draft to sent
func (q *Quote) Send() error {
	if !q.Status.CanTransitionTo(QuoteStatusSent) {
		return shared.ErrInvalidState
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Cannot send a quote without line items")
	}
	now := time.Now()
	q.Status = QuoteStatusSent
	q.SentAt = &now
	q.UpdatedAt = now
	return nil
}

// Accept records client acceptance. Only sent quotes can be accepted.
func (q *Quote) Accept() error {
	if !q.Status.CanTransitionTo(QuoteStatusAccepted) {
		return shared.ErrInvalidState
	}
	now := time.Now()
	q.Status = QuoteStatusAccepted
	q.AcceptedAt = &now
	q.UpdatedAt = now
	return nil
}

// Reject records client rejection. Only sent quotes can be rejected.
func (q *Quote) Reject() error {
	if !q.Status.CanTransitionTo(QuoteStatusRejected) {
		return shared.ErrInvalidState
	}
	q.Status = QuoteStatusRejected
	q.Touch()
	return nil
}

// MarkViewed records the first client view of a sent quote. Subsequent
// views keep the original timestamp.
func (q *Quote) MarkViewed() bool {
	if q.Status != QuoteStatusSent || q.ViewedAt != nil {
		return false
	}
	now := time.Now()
	q.ViewedAt = &now
	q.UpdatedAt = now
	return true
}
