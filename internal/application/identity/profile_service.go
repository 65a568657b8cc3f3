package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/invoicing"
	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/billing"
)

// ProfileService handles account settings, notification preferences, data
// export and account deletion
type ProfileService struct {
	profileRepo       identity.ProfileRepository
	serviceRepo       quoting.ServiceRepository
	requestRepo       quoting.QuoteRequestRepository
	quoteRepo         quoting.QuoteRepository
	invoiceRepo       invoicing.InvoiceRepository
	stripeAdapter     *billing.StripeAdapter
	unsubscribeSecret []byte
	logger            *zap.Logger
}

// ProfileServiceConfig contains configuration for ProfileService
type ProfileServiceConfig struct {
	ProfileRepo       identity.ProfileRepository
	ServiceRepo       quoting.ServiceRepository
	RequestRepo       quoting.QuoteRequestRepository
	QuoteRepo         quoting.QuoteRepository
	InvoiceRepo       invoicing.InvoiceRepository
	StripeAdapter     *billing.StripeAdapter
	UnsubscribeSecret []byte
	Logger            *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(cfg ProfileServiceConfig) *ProfileService {
	return &ProfileService{
		profileRepo:       cfg.ProfileRepo,
		serviceRepo:       cfg.ServiceRepo,
		requestRepo:       cfg.RequestRepo,
		quoteRepo:         cfg.QuoteRepo,
		invoiceRepo:       cfg.InvoiceRepo,
		stripeAdapter:     cfg.StripeAdapter,
		unsubscribeSecret: cfg.UnsubscribeSecret,
		logger:            cfg.Logger,
	}
}

// Get returns the contractor's own profile
func (s *ProfileService) Get(ctx context.Context, contractorID uuid.UUID) (*ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// Update applies contractor-editable settings
func (s *ProfileService) Update(ctx context.Context, contractorID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	profile.UpdateDetails(req.FullName, req.CompanyName, req.Phone, req.Address, req.TaxID)
	if req.CountryCode != "" && req.CountryCode != profile.CountryCode {
		if err := profile.SetCountry(req.CountryCode); err != nil {
			return nil, err
		}
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// UpdateBankDetails sets the payment details shown on invoices
func (s *ProfileService) UpdateBankDetails(ctx context.Context, contractorID uuid.UUID, req UpdateBankDetailsRequest) (*ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	profile.UpdateBankDetails(req.BankName, req.BankAccount, req.BankRouting)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// SetNotificationSettings toggles transactional email delivery
func (s *ProfileService) SetNotificationSettings(ctx context.Context, contractorID uuid.UUID, req NotificationSettingsRequest) error {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return err
	}
	profile.SetEmailNotifications(req.EmailNotifications)
	return s.profileRepo.Update(ctx, profile)
}

// RegisterPushToken records a device token for push delivery
func (s *ProfileService) RegisterPushToken(ctx context.Context, contractorID uuid.UUID, req PushTokenRequest) error {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return err
	}
	if !profile.RegisterPushToken(req.Token, req.Platform) {
		return nil
	}
	return s.profileRepo.Update(ctx, profile)
}

// RemovePushToken drops a device token, typically at logout
func (s *ProfileService) RemovePushToken(ctx context.Context, contractorID uuid.UUID, req RemovePushTokenRequest) error {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return err
	}
	profile.RemovePushTokens([]string{req.Token})
	return s.profileRepo.Update(ctx, profile)
}

// Unsubscribe disables email notifications through a signed link, without
// authentication. A forged token is rejected.
func (s *ProfileService) Unsubscribe(ctx context.Context, profileID, token string) error {
	return s.setEmailDeliveryByToken(ctx, profileID, token, false)
}

// Resubscribe re-enables email notifications through the same signed link
func (s *ProfileService) Resubscribe(ctx context.Context, profileID, token string) error {
	return s.setEmailDeliveryByToken(ctx, profileID, token, true)
}

func (s *ProfileService) setEmailDeliveryByToken(ctx context.Context, profileID, token string, enabled bool) error {
	if !shared.VerifyUnsubscribeToken(s.unsubscribeSecret, profileID, token) {
		return shared.NewDomainError("INVALID_TOKEN", "The unsubscribe link is invalid")
	}
	id, err := uuid.Parse(profileID)
	if err != nil {
		return shared.NewDomainError("INVALID_TOKEN", "The unsubscribe link is invalid")
	}
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	profile.SetEmailNotifications(enabled)
	return s.profileRepo.Update(ctx, profile)
}

// DataExport is a JSON snapshot of everything the contractor owns
type DataExport struct {
	ExportedAt time.Time              `json:"exported_at"`
	Profile    ProfileResponse        `json:"profile"`
	Services   []quoting.Service      `json:"services"`
	Requests   []quoting.QuoteRequest `json:"quote_requests"`
	Quotes     []quoting.Quote        `json:"quotes"`
	Invoices   []invoicing.Invoice    `json:"invoices"`
}

// ExportData collects all data owned by the contractor
func (s *ProfileService) ExportData(ctx context.Context, contractorID uuid.UUID) (*DataExport, error) {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	services, err := s.serviceRepo.FindAll(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.FindAll(ctx, contractorID, nil)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quoteRepo.FindAll(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.FindAll(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	return &DataExport{
		ExportedAt: time.Now(),
		Profile:    ToProfileResponse(profile),
		Services:   services,
		Requests:   requests,
		Quotes:     quotes,
		Invoices:   invoices,
	}, nil
}

// DeleteAccount removes the account and everything it owns. An active
// subscription is canceled immediately, best-effort.
func (s *ProfileService) DeleteAccount(ctx context.Context, contractorID uuid.UUID) error {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return err
	}

	if s.stripeAdapter != nil && profile.StripeSubscriptionID != "" {
		if err := s.stripeAdapter.CancelNow(ctx, profile.StripeSubscriptionID); err != nil {
			s.logger.Warn("Failed to cancel subscription during account deletion",
				zap.String("contractor_id", contractorID.String()),
				zap.Error(err))
		}
	}

	if err := s.invoiceRepo.DeleteAllForContractor(ctx, contractorID); err != nil {
		return err
	}
	if err := s.quoteRepo.DeleteAllForContractor(ctx, contractorID); err != nil {
		return err
	}
	if err := s.requestRepo.DeleteAllForContractor(ctx, contractorID); err != nil {
		return err
	}
	if err := s.serviceRepo.DeleteAllForContractor(ctx, contractorID); err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, contractorID); err != nil {
		return err
	}

	s.logger.Info("Account deleted",
		zap.String("contractor_id", contractorID.String()))
	return nil
}
