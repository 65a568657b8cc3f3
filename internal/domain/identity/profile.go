package identity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/domain/shared/valueobject"
)

// SubscriptionStatus mirrors the billing provider's subscription state.
// Values are written verbatim by the webhook receiver.
type SubscriptionStatus string

const (
	SubscriptionStatusNone     SubscriptionStatus = ""
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// IsActive reports whether the subscription grants access to paid features
func (s SubscriptionStatus) IsActive() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrialing
}

// PushToken is a registered device token for push notifications
type PushToken struct {
	Token    string `json:"t"`
	Platform string `json:"p"` // "ios", "android" or "web"
}

// Profile is the contractor account aggregate. One profile exists per
// contractor; it owns all quoting and invoicing data through its ID.
type Profile struct {
	shared.BaseEntity
	Email              string
	PasswordHash       string
	FullName           string
	CompanyName        string
	Phone              string
	Address            string
	CountryCode        string
	Currency           valueobject.Currency
	TaxID              string
	BankName           string
	BankAccount        string
	BankRouting        string
	EmailNotifications bool
	PushTokens         []PushToken

	// Billing identifiers mirrored from the payment provider
	StripeCustomerID     string
	StripeSubscriptionID string
	StripePriceID        string
	SubscriptionStatus   SubscriptionStatus
	CurrentPeriodEnd     *time.Time
}

// NewProfile creates a new contractor profile at signup
func NewProfile(email, passwordHash, fullName, countryCode string) (*Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if countryCode == "" {
		countryCode = valueobject.DefaultCountryCode
	}
	if !valueobject.IsSupportedCountry(countryCode) {
		return nil, shared.NewDomainError("INVALID_COUNTRY", "Unsupported country code")
	}

	country := valueobject.CountryByCode(countryCode)
	return &Profile{
		BaseEntity:         shared.NewBaseEntity(),
		Email:              email,
		PasswordHash:       passwordHash,
		FullName:           strings.TrimSpace(fullName),
		CountryCode:        countryCode,
		Currency:           country.Currency,
		EmailNotifications: true,
		PushTokens:         make([]PushToken, 0),
	}, nil
}

// DisplayName returns the name shown on client-facing documents
func (p *Profile) DisplayName() string {
	if p.CompanyName != "" {
		return p.CompanyName
	}
	if p.FullName != "" {
		return p.FullName
	}
	return "Contractor"
}

// Country returns the profile's country configuration
func (p *Profile) Country() valueobject.CountryConfig {
	return valueobject.CountryByCode(p.CountryCode)
}

// UpdateDetails updates contractor-editable settings
func (p *Profile) UpdateDetails(fullName, companyName, phone, address, taxID string) {
	p.FullName = strings.TrimSpace(fullName)
	p.CompanyName = strings.TrimSpace(companyName)
	p.Phone = strings.TrimSpace(phone)
	p.Address = strings.TrimSpace(address)
	p.TaxID = strings.TrimSpace(taxID)
	p.Touch()
}

// UpdateBankDetails updates payment details shown on invoices
func (p *Profile) UpdateBankDetails(bankName, bankAccount, bankRouting string) {
	p.BankName = strings.TrimSpace(bankName)
	p.BankAccount = strings.TrimSpace(bankAccount)
	p.BankRouting = strings.TrimSpace(bankRouting)
	p.Touch()
}

// SetCountry changes the localization settings and resets the currency
// to the country default
func (p *Profile) SetCountry(countryCode string) error {
	if !valueobject.IsSupportedCountry(countryCode) {
		return shared.NewDomainError("INVALID_COUNTRY", "Unsupported country code")
	}
	p.CountryCode = countryCode
	p.Currency = valueobject.CountryByCode(countryCode).Currency
	p.Touch()
	return nil
}

// SetEmailNotifications toggles transactional email delivery
func (p *Profile) SetEmailNotifications(enabled bool) {
	p.EmailNotifications = enabled
	p.Touch()
}

// RegisterPushToken adds a device token if not already present
func (p *Profile) RegisterPushToken(token, platform string) bool {
	for _, t := range p.PushTokens {
		if t.Token == token && t.Platform == platform {
			return false
		}
	}
	p.PushTokens = append(p.PushTokens, PushToken{Token: token, Platform: platform})
	p.Touch()
	return true
}

// RemovePushTokens drops tokens the push provider reported as invalid
func (p *Profile) RemovePushTokens(invalid []string) {
	if len(invalid) == 0 {
		return
	}
	dead := make(map[string]struct{}, len(invalid))
	for _, t := range invalid {
		dead[t] = struct{}{}
	}
	kept := p.PushTokens[:0]
	for _, t := range p.PushTokens {
		if _, ok := dead[t.Token]; !ok {
			kept = append(kept, t)
		}
	}
	p.PushTokens = kept
	p.Touch()
}

// SetStripeCustomerID records the billing customer identifier
func (p *Profile) SetStripeCustomerID(customerID string) {
	p.StripeCustomerID = customerID
	p.Touch()
}

// ApplySubscription overwrites the mirrored subscription state. The webhook
// receiver calls this on every relevant event; replays overwrite the same
// fields with the same values, keeping the handler idempotent.
func (p *Profile) ApplySubscription(subscriptionID, priceID string, status SubscriptionStatus, periodEnd *time.Time) {
	p.StripeSubscriptionID = subscriptionID
	p.StripePriceID = priceID
	p.SubscriptionStatus = status
	p.CurrentPeriodEnd = periodEnd
	p.Touch()
}

// MarkPaymentFailed flags the subscription as past due
func (p *Profile) MarkPaymentFailed() {
	p.SubscriptionStatus = SubscriptionStatusPastDue
	p.Touch()
}

// EncodePushTokens serializes the token list for persistence
func EncodePushTokens(tokens []PushToken) string {
	if len(tokens) == 0 {
		return ""
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodePushTokens parses a stored token list. A bare string is treated as a
// single legacy android token.
func DecodePushTokens(raw string) []PushToken {
	if raw == "" {
		return nil
	}
	var tokens []PushToken
	if err := json.Unmarshal([]byte(raw), &tokens); err == nil {
		return tokens
	}
	if len(raw) > 10 {
		return []PushToken{{Token: raw, Platform: "android"}}
	}
	return nil
}
