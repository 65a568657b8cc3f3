package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/application/notification"
	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/billing"
)

// StripeWebhookService handles Stripe webhook events
type StripeWebhookService struct {
	adapter     *billing.StripeAdapter
	profileRepo identity.ProfileRepository
	notifier    *notification.Service
	logger      *zap.Logger
}

// StripeWebhookServiceConfig contains configuration for StripeWebhookService
type StripeWebhookServiceConfig struct {
	Adapter     *billing.StripeAdapter
	ProfileRepo identity.ProfileRepository
	Notifier    *notification.Service
	Logger      *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(cfg StripeWebhookServiceConfig) *StripeWebhookService {
	return &StripeWebhookService{
		adapter:     cfg.Adapter,
		profileRepo: cfg.ProfileRepo,
		notifier:    cfg.Notifier,
		logger:      cfg.Logger,
	}
}

// ErrSignatureVerification marks payloads that fail Stripe's signature
// check. Anything else ProcessWebhook returns is a processing failure on
// an already verified event.
var ErrSignatureVerification = errors.New("webhook signature verification failed")

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies the signature and dispatches a Stripe webhook event
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.adapter.WebhookSecret())
	if err != nil {
		s.logger.Error("Failed to verify webhook signature",
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSignatureVerification, err)
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch event.Type {
	case "checkout.session.completed":
		err = s.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.updated":
		err = s.handleSubscriptionUpdated(ctx, event)
	case "customer.subscription.deleted":
		err = s.handleSubscriptionDeleted(ctx, event)
	case "invoice.payment_succeeded":
		err = s.handlePaymentSucceeded(ctx, event)
	case "invoice.payment_failed":
		err = s.handlePaymentFailed(ctx, event)
	default:
		s.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	return result, nil
}

// mapSubscriptionStatus translates Stripe's subscription status into the
// mirrored profile state
func mapSubscriptionStatus(status stripe.SubscriptionStatus) identity.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive:
		return identity.SubscriptionStatusActive
	case stripe.SubscriptionStatusTrialing:
		return identity.SubscriptionStatusTrialing
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return identity.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
		return identity.SubscriptionStatusCanceled
	}
	return identity.SubscriptionStatus(status)
}

func subscriptionPriceID(sub *stripe.Subscription) string {
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		return sub.Items.Data[0].Price.ID
	}
	return ""
}

func subscriptionPeriodEnd(sub *stripe.Subscription) *time.Time {
	if sub.CurrentPeriodEnd <= 0 {
		return nil
	}
	end := time.Unix(sub.CurrentPeriodEnd, 0)
	return &end
}

// findProfileByCustomer resolves the contractor behind a Stripe customer ID.
// ErrNotFound is not treated as an error because webhooks may arrive for
// customers not in our system; we acknowledge receipt to prevent retries.
func (s *StripeWebhookService) findProfileByCustomer(ctx context.Context, customerID string) (*identity.Profile, error) {
	if customerID == "" {
		return nil, nil
	}
	profile, err := s.profileRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if err == shared.ErrNotFound {
			s.logger.Warn("No profile found for Stripe customer",
				zap.String("customer_id", customerID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return profile, nil
}

// handleCheckoutCompleted handles checkout.session.completed events
func (s *StripeWebhookService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	customerID := ""
	if session.Customer != nil {
		customerID = session.Customer.ID
	}
	subscriptionID := ""
	if session.Subscription != nil {
		subscriptionID = session.Subscription.ID
	}
	if customerID == "" || subscriptionID == "" {
		s.logger.Warn("Checkout session is missing customer or subscription, skipping",
			zap.String("session_id", session.ID))
		return nil
	}

	s.logger.Info("Handling checkout completed",
		zap.String("session_id", session.ID),
		zap.String("customer_id", customerID))

	profile, err := s.findProfileByCustomer(ctx, customerID)
	if err != nil || profile == nil {
		return err
	}

	// The subscription object on the session is usually a bare reference.
	// When it carries state, mirror it; otherwise record the ID and let the
	// following customer.subscription.updated event fill in the rest.
	sub := session.Subscription
	status := identity.SubscriptionStatusActive
	if sub.Status != "" {
		status = mapSubscriptionStatus(sub.Status)
	}
	priceID := subscriptionPriceID(sub)
	if priceID == "" {
		priceID = profile.StripePriceID
	}
	profile.ApplySubscription(subscriptionID, priceID, status, subscriptionPeriodEnd(sub))

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Checkout completed processed successfully",
		zap.String("contractor_id", profile.ID.String()),
		zap.String("subscription_id", subscriptionID))

	return nil
}

// handleSubscriptionUpdated handles customer.subscription.updated events
func (s *StripeWebhookService) handleSubscriptionUpdated(ctx context.Context, event stripe.Event) error {
	var subscription stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	customerID := ""
	if subscription.Customer != nil {
		customerID = subscription.Customer.ID
	}

	s.logger.Info("Handling subscription updated",
		zap.String("subscription_id", subscription.ID),
		zap.String("status", string(subscription.Status)))

	profile, err := s.findProfileByCustomer(ctx, customerID)
	if err != nil || profile == nil {
		return err
	}

	profile.ApplySubscription(subscription.ID,
		subscriptionPriceID(&subscription),
		mapSubscriptionStatus(subscription.Status),
		subscriptionPeriodEnd(&subscription))

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Subscription updated processed successfully",
		zap.String("contractor_id", profile.ID.String()),
		zap.String("subscription_id", subscription.ID))

	return nil
}

// handleSubscriptionDeleted handles customer.subscription.deleted events
func (s *StripeWebhookService) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var subscription stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	customerID := ""
	if subscription.Customer != nil {
		customerID = subscription.Customer.ID
	}

	s.logger.Info("Handling subscription deleted",
		zap.String("subscription_id", subscription.ID))

	profile, err := s.findProfileByCustomer(ctx, customerID)
	if err != nil || profile == nil {
		return err
	}

	profile.ApplySubscription("", "", identity.SubscriptionStatusCanceled, nil)

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Subscription deleted processed successfully",
		zap.String("contractor_id", profile.ID.String()))

	return nil
}

// handlePaymentSucceeded handles invoice.payment_succeeded events
func (s *StripeWebhookService) handlePaymentSucceeded(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	customerID := ""
	if invoice.Customer != nil {
		customerID = invoice.Customer.ID
	}
	if invoice.Subscription == nil {
		s.logger.Debug("Invoice is not for a subscription, skipping")
		return nil
	}

	s.logger.Info("Handling payment succeeded",
		zap.String("invoice_id", invoice.ID),
		zap.String("customer_id", customerID))

	profile, err := s.findProfileByCustomer(ctx, customerID)
	if err != nil || profile == nil {
		return err
	}

	periodEnd := profile.CurrentPeriodEnd
	if invoice.PeriodEnd > 0 {
		end := time.Unix(invoice.PeriodEnd, 0)
		periodEnd = &end
	}
	profile.ApplySubscription(invoice.Subscription.ID, profile.StripePriceID,
		identity.SubscriptionStatusActive, periodEnd)

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Payment succeeded processed successfully",
		zap.String("contractor_id", profile.ID.String()),
		zap.String("invoice_id", invoice.ID))

	return nil
}

// handlePaymentFailed handles invoice.payment_failed events
func (s *StripeWebhookService) handlePaymentFailed(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	customerID := ""
	if invoice.Customer != nil {
		customerID = invoice.Customer.ID
	}
	if invoice.Subscription == nil {
		s.logger.Debug("Invoice is not for a subscription, skipping")
		return nil
	}

	s.logger.Info("Handling payment failed",
		zap.String("invoice_id", invoice.ID),
		zap.String("customer_id", customerID))

	profile, err := s.findProfileByCustomer(ctx, customerID)
	if err != nil || profile == nil {
		return err
	}

	profile.MarkPaymentFailed()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if s.notifier != nil {
		s.notifier.PaymentFailed(ctx, profile)
	}

	s.logger.Warn("Payment failed processed",
		zap.String("contractor_id", profile.ID.String()),
		zap.String("invoice_id", invoice.ID))

	return nil
}
