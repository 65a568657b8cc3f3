package quoting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brickquote/backend/internal/domain/quoting"
)

// CreateServiceRequest is the input for creating a price-list entry
type CreateServiceRequest struct {
	Name      string          `json:"name" binding:"required,max=200"`
	Unit      string          `json:"unit" binding:"required,serviceunit"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateServiceRequest is the input for updating a price-list entry
type UpdateServiceRequest struct {
	Name      string          `json:"name" binding:"required,max=200"`
	Unit      string          `json:"unit" binding:"required,serviceunit"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// ServiceResponse is the API shape of a price-list entry
type ServiceResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitLabel string          `json:"unit_label"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToServiceResponse converts a domain Service to its API shape
func ToServiceResponse(s *quoting.Service) ServiceResponse {
	return ServiceResponse{
		ID:        s.ID,
		Name:      s.Name,
		Unit:      s.Unit.String(),
		UnitLabel: s.Unit.Label(),
		UnitPrice: s.UnitPrice,
		CreatedAt: s.CreatedAt,
	}
}

// IntakeRequest is the public quote-request form payload
type IntakeRequest struct {
	ClientName  string   `json:"client_name" binding:"required,max=200"`
	ClientEmail string   `json:"client_email" binding:"omitempty,email,max=200"`
	ClientPhone string   `json:"client_phone" binding:"omitempty,max=50"`
	Address     string   `json:"address" binding:"omitempty,max=500"`
	Description string   `json:"description" binding:"required,max=10000"`
	PhotoURLs   []string `json:"photo_urls" binding:"omitempty,max=10,dive,url"`
}

// QuoteRequestResponse is the API shape of a quote request
type QuoteRequestResponse struct {
	ID          uuid.UUID `json:"id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	ClientPhone string    `json:"client_phone"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	PhotoURLs   []string  `json:"photo_urls"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToQuoteRequestResponse converts a domain QuoteRequest to its API shape
func ToQuoteRequestResponse(r *quoting.QuoteRequest) QuoteRequestResponse {
	return QuoteRequestResponse{
		ID:          r.ID,
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		ClientPhone: r.ClientPhone,
		Address:     r.Address,
		Description: r.Description,
		PhotoURLs:   r.PhotoURLs,
		Status:      r.Status.String(),
		CreatedAt:   r.CreatedAt,
	}
}

// QuoteItemInput is one line item in a quote write request
type QuoteItemInput struct {
	ServiceName string          `json:"service_name" binding:"required,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Unit        string          `json:"unit" binding:"required,serviceunit"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// QuoteMaterialInput is one material line in a quote write request
type QuoteMaterialInput struct {
	Name      string          `json:"name" binding:"required,max=200"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpsertQuoteRequest is the write payload for draft quotes
type UpsertQuoteRequest struct {
	Items           []QuoteItemInput     `json:"items" binding:"required,min=1,max=100,dive"`
	Materials       []QuoteMaterialInput `json:"materials" binding:"omitempty,max=100,dive"`
	DiscountPercent decimal.Decimal      `json:"discount_percent"`
	TaxPercent      decimal.Decimal      `json:"tax_percent"`
	Notes           string               `json:"notes" binding:"omitempty,max=10000"`
	ValidUntil      *time.Time           `json:"valid_until"`
}

// QuoteResponse is the contractor-facing API shape of a quote
type QuoteResponse struct {
	ID              uuid.UUID                `json:"id"`
	RequestID       uuid.UUID                `json:"request_id"`
	Items           []quoting.QuoteItem      `json:"items"`
	Materials       []quoting.QuoteMaterial  `json:"materials"`
	DiscountPercent decimal.Decimal          `json:"discount_percent"`
	TaxPercent      decimal.Decimal          `json:"tax_percent"`
	Subtotal        decimal.Decimal          `json:"subtotal"`
	TotalNet        decimal.Decimal          `json:"total_net"`
	TotalTax        decimal.Decimal          `json:"total_tax"`
	TotalGross      decimal.Decimal          `json:"total_gross"`
	Notes           string                   `json:"notes"`
	ValidUntil      *time.Time               `json:"valid_until,omitempty"`
	Status          string                   `json:"status"`
	Token           string                   `json:"token"`
	SentAt          *time.Time               `json:"sent_at,omitempty"`
	ViewedAt        *time.Time               `json:"viewed_at,omitempty"`
	AcceptedAt      *time.Time               `json:"accepted_at,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

// ToQuoteResponse converts a domain Quote to its API shape
func ToQuoteResponse(q *quoting.Quote) QuoteResponse {
	return QuoteResponse{
		ID:              q.ID,
		RequestID:       q.RequestID,
		Items:           q.Items,
		Materials:       q.Materials,
		DiscountPercent: q.DiscountPercent,
		TaxPercent:      q.TaxPercent,
		Subtotal:        q.Subtotal,
		TotalNet:        q.TotalNet,
		TotalTax:        q.TotalTax,
		TotalGross:      q.TotalGross,
		Notes:           q.Notes,
		ValidUntil:      q.ValidUntil,
		Status:          q.Status.String(),
		Token:           q.Token,
		SentAt:          q.SentAt,
		ViewedAt:        q.ViewedAt,
		AcceptedAt:      q.AcceptedAt,
		CreatedAt:       q.CreatedAt,
	}
}

// PublicQuoteResponse is the client-facing view of a sent quote. It exposes
// no contractor internals beyond display details.
type PublicQuoteResponse struct {
	ContractorName  string                  `json:"contractor_name"`
	ContractorPhone string                  `json:"contractor_phone,omitempty"`
	ClientName      string                  `json:"client_name"`
	Items           []quoting.QuoteItem     `json:"items"`
	Materials       []quoting.QuoteMaterial `json:"materials"`
	DiscountPercent decimal.Decimal         `json:"discount_percent"`
	TaxPercent      decimal.Decimal         `json:"tax_percent"`
	TaxLabel        string                  `json:"tax_label"`
	Subtotal        decimal.Decimal         `json:"subtotal"`
	TotalNet        decimal.Decimal         `json:"total_net"`
	TotalTax        decimal.Decimal         `json:"total_tax"`
	TotalGross      decimal.Decimal         `json:"total_gross"`
	CurrencySymbol  string                  `json:"currency_symbol"`
	Notes           string                  `json:"notes"`
	ValidUntil      *time.Time              `json:"valid_until,omitempty"`
	Status          string                  `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
}
