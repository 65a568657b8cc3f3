package models

import (
	"time"

	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/shared/valueobject"
)

// ProfileModel is the persistence model for the contractor Profile aggregate
type ProfileModel struct {
	BaseModel
	Email              string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash       string `gorm:"type:varchar(255);not null"`
	FullName           string `gorm:"type:varchar(200)"`
	CompanyName        string `gorm:"type:varchar(200)"`
	Phone              string `gorm:"type:varchar(50)"`
	Address            string `gorm:"type:text"`
	CountryCode        string `gorm:"type:varchar(2);not null;default:'US'"`
	Currency           string `gorm:"type:varchar(3);not null;default:'USD'"`
	TaxID              string `gorm:"type:varchar(50)"`
	BankName           string `gorm:"type:varchar(200)"`
	BankAccount        string `gorm:"type:varchar(50)"`
	BankRouting        string `gorm:"type:varchar(50)"`
	EmailNotifications bool   `gorm:"not null;default:true"`
	PushTokens         string `gorm:"type:text"` // JSON-encoded token list

	StripeCustomerID     string     `gorm:"type:varchar(100);index"`
	StripeSubscriptionID string     `gorm:"type:varchar(100)"`
	StripePriceID        string     `gorm:"type:varchar(100)"`
	SubscriptionStatus   string     `gorm:"type:varchar(20)"`
	CurrentPeriodEnd     *time.Time
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		BaseEntity:         m.ToBaseEntity(),
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		FullName:           m.FullName,
		CompanyName:        m.CompanyName,
		Phone:              m.Phone,
		Address:            m.Address,
		CountryCode:        m.CountryCode,
		Currency:           valueobject.Currency(m.Currency),
		TaxID:              m.TaxID,
		BankName:           m.BankName,
		BankAccount:        m.BankAccount,
		BankRouting:        m.BankRouting,
		EmailNotifications: m.EmailNotifications,
		PushTokens:         identity.DecodePushTokens(m.PushTokens),

		StripeCustomerID:     m.StripeCustomerID,
		StripeSubscriptionID: m.StripeSubscriptionID,
		StripePriceID:        m.StripePriceID,
		SubscriptionStatus:   identity.SubscriptionStatus(m.SubscriptionStatus),
		CurrentPeriodEnd:     m.CurrentPeriodEnd,
	}
}

// FromDomain populates the persistence model from a domain Profile
func (m *ProfileModel) FromDomain(p *identity.Profile) {
	m.FromBaseEntity(p.BaseEntity)
	m.Email = p.Email
	m.PasswordHash = p.PasswordHash
	m.FullName = p.FullName
	m.CompanyName = p.CompanyName
	m.Phone = p.Phone
	m.Address = p.Address
	m.CountryCode = p.CountryCode
	m.Currency = string(p.Currency)
	m.TaxID = p.TaxID
	m.BankName = p.BankName
	m.BankAccount = p.BankAccount
	m.BankRouting = p.BankRouting
	m.EmailNotifications = p.EmailNotifications
	m.PushTokens = identity.EncodePushTokens(p.PushTokens)

	m.StripeCustomerID = p.StripeCustomerID
	m.StripeSubscriptionID = p.StripeSubscriptionID
	m.StripePriceID = p.StripePriceID
	m.SubscriptionStatus = string(p.SubscriptionStatus)
	m.CurrentPeriodEnd = p.CurrentPeriodEnd
}
