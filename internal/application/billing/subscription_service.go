package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/billing"
)

// SubscriptionService drives the Stripe subscription flows initiated from
// the contractor's account screen
type SubscriptionService struct {
	adapter     *billing.StripeAdapter
	profileRepo identity.ProfileRepository
	logger      *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(adapter *billing.StripeAdapter, profileRepo identity.ProfileRepository, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		adapter:     adapter,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// CheckoutRequest starts a checkout for a plan
type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required,oneof=monthly yearly"`
}

// CheckoutResponse carries the hosted checkout redirect
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// SubscriptionResponse is the contractor-facing subscription state
type SubscriptionResponse struct {
	Status            string     `json:"status"`
	Plan              string     `json:"plan,omitempty"`
	Active            bool       `json:"active"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
}

func (s *SubscriptionService) subscriptionResponse(profile *identity.Profile, cancelAtPeriodEnd bool) *SubscriptionResponse {
	plan := ""
	if p, ok := s.adapter.PlanForPriceID(profile.StripePriceID); ok {
		plan = string(p)
	}
	return &SubscriptionResponse{
		Status:            string(profile.SubscriptionStatus),
		Plan:              plan,
		Active:            profile.SubscriptionStatus.IsActive(),
		CurrentPeriodEnd:  profile.CurrentPeriodEnd,
		CancelAtPeriodEnd: cancelAtPeriodEnd,
	}
}

// Status returns the mirrored subscription state for a contractor
func (s *SubscriptionService) Status(ctx context.Context, contractorID uuid.UUID) (*SubscriptionResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	return s.subscriptionResponse(profile, false), nil
}

// StartCheckout creates a hosted checkout session for the chosen plan,
// creating the Stripe customer on first use
func (s *SubscriptionService) StartCheckout(ctx context.Context, contractorID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error) {
	plan := billing.Plan(req.Plan)
	if !plan.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}

	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	if profile.SubscriptionStatus.IsActive() {
		return nil, shared.NewDomainError("ALREADY_SUBSCRIBED", "An active subscription already exists")
	}

	customerID, err := s.adapter.EnsureCustomer(ctx, profile.ID, profile.StripeCustomerID, profile.Email, profile.DisplayName())
	if err != nil {
		return nil, err
	}
	if customerID != profile.StripeCustomerID {
		profile.SetStripeCustomerID(customerID)
		if err := s.profileRepo.Update(ctx, profile); err != nil {
			return nil, err
		}
	}

	out, err := s.adapter.CreateCheckoutSession(ctx, profile.ID, customerID, plan)
	if err != nil {
		return nil, err
	}
	return &CheckoutResponse{SessionID: out.SessionID, URL: out.URL}, nil
}

// VerifyCheckout confirms a completed checkout session and mirrors the
// resulting subscription immediately, without waiting for the webhook
func (s *SubscriptionService) VerifyCheckout(ctx context.Context, contractorID uuid.UUID, sessionID string) (*SubscriptionResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	out, err := s.adapter.VerifyCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !out.Complete {
		return nil, shared.NewDomainError("CHECKOUT_INCOMPLETE", "The checkout session has not completed")
	}

	if out.CustomerID != "" && out.CustomerID != profile.StripeCustomerID {
		profile.SetStripeCustomerID(out.CustomerID)
	}
	if out.SubscriptionID != "" && profile.StripeSubscriptionID != out.SubscriptionID {
		profile.ApplySubscription(out.SubscriptionID, profile.StripePriceID,
			identity.SubscriptionStatusActive, profile.CurrentPeriodEnd)
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return s.subscriptionResponse(profile, false), nil
}

// BillingPortalURL creates a billing portal session for invoice history and
// payment method management
func (s *SubscriptionService) BillingPortalURL(ctx context.Context, contractorID uuid.UUID) (string, error) {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return "", err
	}
	if profile.StripeCustomerID == "" {
		return "", shared.NewDomainError("NO_BILLING_ACCOUNT", "No billing account exists yet")
	}
	return s.adapter.CreateBillingPortalSession(ctx, profile.StripeCustomerID)
}

func (s *SubscriptionService) requireSubscription(ctx context.Context, contractorID uuid.UUID) (*identity.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	if profile.StripeSubscriptionID == "" {
		return nil, shared.NewDomainError("NO_SUBSCRIPTION", "No subscription exists")
	}
	return profile, nil
}

func (s *SubscriptionService) applyAdapterOutput(ctx context.Context, profile *identity.Profile, out *billing.SubscriptionOutput) (*SubscriptionResponse, error) {
	periodEnd := out.CurrentPeriodEnd
	profile.ApplySubscription(out.SubscriptionID, out.PriceID,
		mapSubscriptionStatus(stripe.SubscriptionStatus(out.Status)), &periodEnd)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return s.subscriptionResponse(profile, out.CancelAtPeriodEnd), nil
}

// Cancel schedules the subscription to end at the current period's close
func (s *SubscriptionService) Cancel(ctx context.Context, contractorID uuid.UUID) (*SubscriptionResponse, error) {
	profile, err := s.requireSubscription(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	out, err := s.adapter.CancelAtPeriodEnd(ctx, profile.StripeSubscriptionID)
	if err != nil {
		return nil, err
	}
	return s.applyAdapterOutput(ctx, profile, out)
}

// Resume clears a pending cancellation
func (s *SubscriptionService) Resume(ctx context.Context, contractorID uuid.UUID) (*SubscriptionResponse, error) {
	profile, err := s.requireSubscription(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	out, err := s.adapter.ResumeSubscription(ctx, profile.StripeSubscriptionID)
	if err != nil {
		return nil, err
	}
	return s.applyAdapterOutput(ctx, profile, out)
}

// SwitchPlan moves the subscription to another plan with prorations
func (s *SubscriptionService) SwitchPlan(ctx context.Context, contractorID uuid.UUID, req CheckoutRequest) (*SubscriptionResponse, error) {
	plan := billing.Plan(req.Plan)
	if !plan.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}
	profile, err := s.requireSubscription(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	if current, ok := s.adapter.PlanForPriceID(profile.StripePriceID); ok && current == plan {
		return nil, shared.NewDomainError("SAME_PLAN", "The subscription is already on this plan")
	}
	out, err := s.adapter.SwitchPlan(ctx, profile.StripeSubscriptionID, plan)
	if err != nil {
		return nil, err
	}
	return s.applyAdapterOutput(ctx, profile, out)
}
