package models

import (
	"encoding/json"
	"time"

	"github.com/brickquote/backend/internal/domain/invoicing"
	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for invoices
type InvoiceModel struct {
	ContractorModel
	QuoteID         *uuid.UUID      `gorm:"type:uuid;index"`
	InvoiceNumber   string          `gorm:"type:varchar(50);not null"`
	ClientName      string          `gorm:"type:varchar(200);not null"`
	ClientEmail     string          `gorm:"type:varchar(200)"`
	ClientAddress   string          `gorm:"type:text"`
	Items           string          `gorm:"type:jsonb;not null;default:'[]'"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalNet        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTax        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalGross      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes           string          `gorm:"type:text"`
	DueDate         *time.Time
	BankName        string `gorm:"type:varchar(200)"`
	BankAccount     string `gorm:"type:varchar(50)"`
	BankRouting     string `gorm:"type:varchar(50)"`
	Status          string `gorm:"type:varchar(20);not null;index"`
	ReminderCount   int    `gorm:"not null;default:0"`
	Token           string `gorm:"type:varchar(32);not null;uniqueIndex"`
	SentAt          *time.Time
	PaidAt          *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() (*invoicing.Invoice, error) {
	var items []quoting.QuoteItem
	if err := json.Unmarshal([]byte(orEmptyArray(m.Items)), &items); err != nil {
		return nil, err
	}
	return &invoicing.Invoice{
		ContractorAggregateRoot: m.ToAggregate(),
		QuoteID:                 m.QuoteID,
		InvoiceNumber:           m.InvoiceNumber,
		ClientName:              m.ClientName,
		ClientEmail:             m.ClientEmail,
		ClientAddress:           m.ClientAddress,
		Items:                   items,
		DiscountPercent:         m.DiscountPercent,
		TaxPercent:              m.TaxPercent,
		Subtotal:                m.Subtotal,
		TotalNet:                m.TotalNet,
		TotalTax:                m.TotalTax,
		TotalGross:              m.TotalGross,
		Notes:                   m.Notes,
		DueDate:                 m.DueDate,
		BankName:                m.BankName,
		BankAccount:             m.BankAccount,
		BankRouting:             m.BankRouting,
		Status:                  invoicing.InvoiceStatus(m.Status),
		ReminderCount:           m.ReminderCount,
		Token:                   m.Token,
		SentAt:                  m.SentAt,
		PaidAt:                  m.PaidAt,
	}, nil
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(i *invoicing.Invoice) error {
	items, err := json.Marshal(i.Items)
	if err != nil {
		return err
	}
	m.FromAggregate(i.ContractorAggregateRoot)
	m.QuoteID = i.QuoteID
	m.InvoiceNumber = i.InvoiceNumber
	m.ClientName = i.ClientName
	m.ClientEmail = i.ClientEmail
	m.ClientAddress = i.ClientAddress
	m.Items = string(items)
	m.DiscountPercent = i.DiscountPercent
	m.TaxPercent = i.TaxPercent
	m.Subtotal = i.Subtotal
	m.TotalNet = i.TotalNet
	m.TotalTax = i.TotalTax
	m.TotalGross = i.TotalGross
	m.Notes = i.Notes
	m.DueDate = i.DueDate
	m.BankName = i.BankName
	m.BankAccount = i.BankAccount
	m.BankRouting = i.BankRouting
	m.Status = string(i.Status)
	m.ReminderCount = i.ReminderCount
	m.Token = i.Token
	m.SentAt = i.SentAt
	m.PaidAt = i.PaidAt
	return nil
}
