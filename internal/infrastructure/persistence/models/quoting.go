package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceModel is the persistence model for price-list entries
type ServiceModel struct {
	ContractorModel
	Name      string          `gorm:"type:varchar(200);not null"`
	Unit      string          `gorm:"type:varchar(10);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (ServiceModel) TableName() string {
	return "services"
}

// ToDomain converts the persistence model to a domain Service
func (m *ServiceModel) ToDomain() *quoting.Service {
	return &quoting.Service{
		ContractorAggregateRoot: m.ToAggregate(),
		Name:                    m.Name,
		Unit:                    quoting.ServiceUnit(m.Unit),
		UnitPrice:               m.UnitPrice,
	}
}

// FromDomain populates the persistence model from a domain Service
func (m *ServiceModel) FromDomain(s *quoting.Service) {
	m.FromAggregate(s.ContractorAggregateRoot)
	m.Name = s.Name
	m.Unit = string(s.Unit)
	m.UnitPrice = s.UnitPrice
}

// QuoteRequestModel is the persistence model for client quote requests
type QuoteRequestModel struct {
	ContractorModel
	ClientName  string `gorm:"type:varchar(200);not null"`
	ClientEmail string `gorm:"type:varchar(200)"`
	ClientPhone string `gorm:"type:varchar(50)"`
	Address     string `gorm:"type:text"`
	Description string `gorm:"type:text;not null"`
	PhotoURLs   string `gorm:"type:text"` // newline-separated URLs
	Status      string `gorm:"type:varchar(20);not null;index"`
	Token       string `gorm:"type:varchar(32);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (QuoteRequestModel) TableName() string {
	return "quote_requests"
}

// ToDomain converts the persistence model to a domain QuoteRequest
func (m *QuoteRequestModel) ToDomain() *quoting.QuoteRequest {
	var photos []string
	if m.PhotoURLs != "" {
		photos = strings.Split(m.PhotoURLs, "\n")
	}
	return &quoting.QuoteRequest{
		ContractorAggregateRoot: m.ToAggregate(),
		ClientName:              m.ClientName,
		ClientEmail:             m.ClientEmail,
		ClientPhone:             m.ClientPhone,
		Address:                 m.Address,
		Description:             m.Description,
		PhotoURLs:               photos,
		Status:                  quoting.RequestStatus(m.Status),
		Token:                   m.Token,
	}
}

// FromDomain populates the persistence model from a domain QuoteRequest
func (m *QuoteRequestModel) FromDomain(r *quoting.QuoteRequest) {
	m.FromAggregate(r.ContractorAggregateRoot)
	m.ClientName = r.ClientName
	m.ClientEmail = r.ClientEmail
	m.ClientPhone = r.ClientPhone
	m.Address = r.Address
	m.Description = r.Description
	m.PhotoURLs = strings.Join(r.PhotoURLs, "\n")
	m.Status = string(r.Status)
	m.Token = r.Token
}

// QuoteModel is the persistence model for quotes. Line items and materials
// are stored as JSON documents; totals are denormalized for list views and
// re-derivable from the items.
type QuoteModel struct {
	ContractorModel
	RequestID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items           string          `gorm:"type:jsonb;not null;default:'[]'"`
	Materials       string          `gorm:"type:jsonb;not null;default:'[]'"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalNet        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTax        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalGross      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes           string          `gorm:"type:text"`
	ValidUntil      *time.Time
	Status          string     `gorm:"type:varchar(20);not null;index"`
	Token           string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	SentAt          *time.Time
	ViewedAt        *time.Time
	AcceptedAt      *time.Time
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote
func (m *QuoteModel) ToDomain() (*quoting.Quote, error) {
	var items []quoting.QuoteItem
	if err := json.Unmarshal([]byte(orEmptyArray(m.Items)), &items); err != nil {
		return nil, err
	}
	var materials []quoting.QuoteMaterial
	if err := json.Unmarshal([]byte(orEmptyArray(m.Materials)), &materials); err != nil {
		return nil, err
	}
	return &quoting.Quote{
		ContractorAggregateRoot: m.ToAggregate(),
		RequestID:               m.RequestID,
		Items:                   items,
		Materials:               materials,
		DiscountPercent:         m.DiscountPercent,
		TaxPercent:              m.TaxPercent,
		Subtotal:                m.Subtotal,
		TotalNet:                m.TotalNet,
		TotalTax:                m.TotalTax,
		TotalGross:              m.TotalGross,
		Notes:                   m.Notes,
		ValidUntil:              m.ValidUntil,
		Status:                  quoting.QuoteStatus(m.Status),
		Token:                   m.Token,
		SentAt:                  m.SentAt,
		ViewedAt:                m.ViewedAt,
		AcceptedAt:              m.AcceptedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain Quote
func (m *QuoteModel) FromDomain(q *quoting.Quote) error {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return err
	}
	materials, err := json.Marshal(q.Materials)
	if err != nil {
		return err
	}
	m.FromAggregate(q.ContractorAggregateRoot)
	m.RequestID = q.RequestID
	m.Items = string(items)
	m.Materials = string(materials)
	m.DiscountPercent = q.DiscountPercent
	m.TaxPercent = q.TaxPercent
	m.Subtotal = q.Subtotal
	m.TotalNet = q.TotalNet
	m.TotalTax = q.TotalTax
	m.TotalGross = q.TotalGross
	m.Notes = q.Notes
	m.ValidUntil = q.ValidUntil
	m.Status = string(q.Status)
	m.Token = q.Token
	m.SentAt = q.SentAt
	m.ViewedAt = q.ViewedAt
	m.AcceptedAt = q.AcceptedAt
	return nil
}

func orEmptyArray(s string) string {
	if s == "" {
		return "[]"
	}
	return s
}
