package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/shared/valueobject"
)

// RegisterRequest creates a contractor account
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	FullName    string `json:"full_name" binding:"required,max=200"`
	CountryCode string `json:"country_code" binding:"omitempty,len=2"`
}

// LoginRequest authenticates a contractor
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token and the authenticated profile
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   ProfileResponse `json:"profile"`
}

// ChangePasswordRequest rotates the account password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// UpdateProfileRequest updates contractor-editable settings
type UpdateProfileRequest struct {
	FullName    string `json:"full_name" binding:"max=200"`
	CompanyName string `json:"company_name" binding:"max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Address     string `json:"address" binding:"max=500"`
	TaxID       string `json:"tax_id" binding:"max=50"`
	CountryCode string `json:"country_code" binding:"omitempty,len=2"`
}

// UpdateBankDetailsRequest updates payment details shown on invoices
type UpdateBankDetailsRequest struct {
	BankName    string `json:"bank_name" binding:"max=200"`
	BankAccount string `json:"bank_account" binding:"max=100"`
	BankRouting string `json:"bank_routing" binding:"max=50"`
}

// NotificationSettingsRequest toggles transactional email delivery
type NotificationSettingsRequest struct {
	EmailNotifications bool `json:"email_notifications"`
}

// PushTokenRequest registers a device for push notifications
type PushTokenRequest struct {
	Token    string `json:"token" binding:"required,max=500"`
	Platform string `json:"platform" binding:"required,oneof=ios android web"`
}

// RemovePushTokenRequest unregisters a device
type RemovePushTokenRequest struct {
	Token string `json:"token" binding:"required,max=500"`
}

// ProfileResponse is the contractor's own account view
type ProfileResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	FullName           string     `json:"full_name"`
	CompanyName        string     `json:"company_name,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	Address            string     `json:"address,omitempty"`
	CountryCode        string     `json:"country_code"`
	Currency           string     `json:"currency"`
	TaxID              string     `json:"tax_id,omitempty"`
	BankName           string     `json:"bank_name,omitempty"`
	BankAccount        string     `json:"bank_account,omitempty"`
	BankRouting        string     `json:"bank_routing,omitempty"`
	EmailNotifications bool       `json:"email_notifications"`
	SubscriptionStatus string     `json:"subscription_status,omitempty"`
	SubscriptionActive bool       `json:"subscription_active"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ToProfileResponse converts a Profile to ProfileResponse
func ToProfileResponse(p *identity.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                 p.ID,
		Email:              p.Email,
		FullName:           p.FullName,
		CompanyName:        p.CompanyName,
		Phone:              p.Phone,
		Address:            p.Address,
		CountryCode:        p.CountryCode,
		Currency:           string(p.Currency),
		TaxID:              p.TaxID,
		BankName:           p.BankName,
		BankAccount:        p.BankAccount,
		BankRouting:        p.BankRouting,
		EmailNotifications: p.EmailNotifications,
		SubscriptionStatus: string(p.SubscriptionStatus),
		SubscriptionActive: p.SubscriptionStatus.IsActive(),
		CurrentPeriodEnd:   p.CurrentPeriodEnd,
		CreatedAt:          p.CreatedAt,
	}
}

// CountryResponse describes one supported market
type CountryResponse struct {
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	Currency          string  `json:"currency"`
	CurrencySymbol    string  `json:"currency_symbol"`
	TaxLabel          string  `json:"tax_label"`
	DefaultTaxPercent float64 `json:"default_tax_percent"`
	TaxIDLabel        string  `json:"tax_id_label"`
	TaxIDRequired     bool    `json:"tax_id_required"`
	BankRoutingLabel  string  `json:"bank_routing_label"`
	DateFormat        string  `json:"date_format"`
}

// SupportedCountries lists the markets a profile can be localized to
func SupportedCountries() []CountryResponse {
	all := valueobject.AllCountries()
	out := make([]CountryResponse, len(all))
	for i, c := range all {
		out[i] = CountryResponse{
			Code:              c.Code,
			Name:              c.Name,
			Currency:          string(c.Currency),
			CurrencySymbol:    c.CurrencySymbol,
			TaxLabel:          c.TaxLabel,
			DefaultTaxPercent: c.DefaultTaxPercent,
			TaxIDLabel:        c.TaxIDLabel,
			TaxIDRequired:     c.TaxIDRequired,
			BankRoutingLabel:  c.BankRoutingLabel,
			DateFormat:        string(c.DateFormat),
		}
	}
	return out
}
