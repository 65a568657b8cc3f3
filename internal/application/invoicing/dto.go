package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appquoting "github.com/brickquote/backend/internal/application/quoting"
	"github.com/brickquote/backend/internal/domain/invoicing"
	"github.com/brickquote/backend/internal/domain/quoting"
)

// UpsertInvoiceRequest carries the editable content of a draft invoice
type UpsertInvoiceRequest struct {
	ClientName      string                      `json:"client_name" binding:"required,max=200"`
	ClientEmail     string                      `json:"client_email" binding:"omitempty,email"`
	ClientAddress   string                      `json:"client_address" binding:"max=500"`
	Items           []appquoting.QuoteItemInput `json:"items" binding:"required,min=1,max=100,dive"`
	DiscountPercent decimal.Decimal             `json:"discount_percent"`
	TaxPercent      decimal.Decimal             `json:"tax_percent"`
	Notes           string                      `json:"notes" binding:"max=5000"`
	DueDate         *time.Time                  `json:"due_date"`
	BankName        string                      `json:"bank_name" binding:"max=200"`
	BankAccount     string                      `json:"bank_account" binding:"max=100"`
	BankRouting     string                      `json:"bank_routing" binding:"max=50"`
}

// CreateFromQuoteRequest issues an invoice for an accepted quote
type CreateFromQuoteRequest struct {
	QuoteID uuid.UUID `json:"quote_id" binding:"required"`
}

// InvoiceResponse is the contractor-facing view of an invoice
type InvoiceResponse struct {
	ID              uuid.UUID           `json:"id"`
	QuoteID         *uuid.UUID          `json:"quote_id,omitempty"`
	InvoiceNumber   string              `json:"invoice_number"`
	ClientName      string              `json:"client_name"`
	ClientEmail     string              `json:"client_email,omitempty"`
	ClientAddress   string              `json:"client_address,omitempty"`
	Items           []quoting.QuoteItem `json:"items"`
	DiscountPercent decimal.Decimal     `json:"discount_percent"`
	TaxPercent      decimal.Decimal     `json:"tax_percent"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TotalNet        decimal.Decimal     `json:"total_net"`
	TotalTax        decimal.Decimal     `json:"total_tax"`
	TotalGross      decimal.Decimal     `json:"total_gross"`
	Notes           string              `json:"notes,omitempty"`
	DueDate         *time.Time          `json:"due_date,omitempty"`
	BankName        string              `json:"bank_name,omitempty"`
	BankAccount     string              `json:"bank_account,omitempty"`
	BankRouting     string              `json:"bank_routing,omitempty"`
	Status          string              `json:"status"`
	ReminderCount   int                 `json:"reminder_count"`
	Token           string              `json:"token"`
	SentAt          *time.Time          `json:"sent_at,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToInvoiceResponse converts an Invoice to InvoiceResponse
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              inv.ID,
		QuoteID:         inv.QuoteID,
		InvoiceNumber:   inv.InvoiceNumber,
		ClientName:      inv.ClientName,
		ClientEmail:     inv.ClientEmail,
		ClientAddress:   inv.ClientAddress,
		Items:           inv.Items,
		DiscountPercent: inv.DiscountPercent,
		TaxPercent:      inv.TaxPercent,
		Subtotal:        inv.Subtotal,
		TotalNet:        inv.TotalNet,
		TotalTax:        inv.TotalTax,
		TotalGross:      inv.TotalGross,
		Notes:           inv.Notes,
		DueDate:         inv.DueDate,
		BankName:        inv.BankName,
		BankAccount:     inv.BankAccount,
		BankRouting:     inv.BankRouting,
		Status:          inv.Status.String(),
		ReminderCount:   inv.ReminderCount,
		Token:           inv.Token,
		SentAt:          inv.SentAt,
		PaidAt:          inv.PaidAt,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}

// PublicInvoiceResponse is the client-facing view of a sent invoice
type PublicInvoiceResponse struct {
	ContractorName  string              `json:"contractor_name"`
	ContractorPhone string              `json:"contractor_phone,omitempty"`
	InvoiceNumber   string              `json:"invoice_number"`
	ClientName      string              `json:"client_name"`
	Items           []quoting.QuoteItem `json:"items"`
	DiscountPercent decimal.Decimal     `json:"discount_percent"`
	TaxPercent      decimal.Decimal     `json:"tax_percent"`
	TaxLabel        string              `json:"tax_label"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TotalNet        decimal.Decimal     `json:"total_net"`
	TotalTax        decimal.Decimal     `json:"total_tax"`
	TotalGross      decimal.Decimal     `json:"total_gross"`
	CurrencySymbol  string              `json:"currency_symbol"`
	Notes           string              `json:"notes,omitempty"`
	DueDate         *time.Time          `json:"due_date,omitempty"`
	BankName        string              `json:"bank_name,omitempty"`
	BankAccount     string              `json:"bank_account,omitempty"`
	BankRouting     string              `json:"bank_routing,omitempty"`
	BankRoutingLabel string             `json:"bank_routing_label,omitempty"`
	Status          string              `json:"status"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}
