package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	portalsession "github.com/stripe/stripe-go/v81/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/subscription"
	"go.uber.org/zap"
)

// StripeAdapter implements Stripe billing operations for subscription management
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// WebhookSecret returns the secret used to verify webhook signatures
func (a *StripeAdapter) WebhookSecret() string {
	return a.config.WebhookSecret
}

// PlanForPriceID resolves a Stripe price ID back to a plan
func (a *StripeAdapter) PlanForPriceID(priceID string) (Plan, bool) {
	return a.config.PlanForPriceID(priceID)
}

// EnsureCustomer returns the existing Stripe customer ID or creates a new
// customer for the contractor.
func (a *StripeAdapter) EnsureCustomer(ctx context.Context, contractorID uuid.UUID, existingID, email, name string) (string, error) {
	if existingID != "" {
		return existingID, nil
	}

	a.logger.Debug("Creating Stripe customer",
		zap.String("contractor_id", contractorID.String()),
		zap.String("email", email))

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	params.Metadata = map[string]string{
		"contractor_id": contractorID.String(),
	}

	cust, err := customer.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe customer",
			zap.String("contractor_id", contractorID.String()),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create customer: %w", err)
	}

	a.logger.Info("Created Stripe customer",
		zap.String("contractor_id", contractorID.String()),
		zap.String("customer_id", cust.ID))

	return cust.ID, nil
}

// CheckoutSessionOutput is the result of creating a checkout session
type CheckoutSessionOutput struct {
	SessionID string
	URL       string
}

// CreateCheckoutSession creates a subscription checkout session for a plan
func (a *StripeAdapter) CreateCheckoutSession(ctx context.Context, contractorID uuid.UUID, customerID string, plan Plan) (*CheckoutSessionOutput, error) {
	a.logger.Debug("Creating Stripe checkout session",
		zap.String("contractor_id", contractorID.String()),
		zap.String("customer_id", customerID),
		zap.String("plan", string(plan)))

	priceID, err := a.config.GetPriceID(plan)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:          stripe.String(customerID),
		ClientReferenceID: stripe.String(contractorID.String()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(a.config.SuccessURL),
		CancelURL:  stripe.String(a.config.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"contractor_id": contractorID.String(),
			},
		},
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe checkout session",
			zap.String("contractor_id", contractorID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	a.logger.Info("Created Stripe checkout session",
		zap.String("contractor_id", contractorID.String()),
		zap.String("session_id", sess.ID))

	return &CheckoutSessionOutput{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

// VerifySessionOutput describes a completed checkout session
type VerifySessionOutput struct {
	Complete       bool
	CustomerID     string
	SubscriptionID string
}

// VerifyCheckoutSession retrieves a checkout session and reports whether
// checkout completed, along with the resulting customer and subscription.
func (a *StripeAdapter) VerifyCheckoutSession(ctx context.Context, sessionID string) (*VerifySessionOutput, error) {
	a.logger.Debug("Verifying Stripe checkout session", zap.String("session_id", sessionID))

	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("subscription")

	sess, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		a.logger.Error("Failed to get Stripe checkout session",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to get checkout session: %w", err)
	}

	out := &VerifySessionOutput{
		Complete: sess.Status == stripe.CheckoutSessionStatusComplete,
	}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
	}
	return out, nil
}

// CreateBillingPortalSession creates a Stripe billing portal session
func (a *StripeAdapter) CreateBillingPortalSession(ctx context.Context, customerID string) (string, error) {
	a.logger.Debug("Creating Stripe billing portal session", zap.String("customer_id", customerID))

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(a.config.BillingPortalReturnURL),
	}

	sess, err := portalsession.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe billing portal session",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create billing portal session: %w", err)
	}

	return sess.URL, nil
}

// SubscriptionOutput describes the state of a subscription after an operation
type SubscriptionOutput struct {
	SubscriptionID    string
	Status            string
	PriceID           string
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
}

func subscriptionOutput(sub *stripe.Subscription) *SubscriptionOutput {
	out := &SubscriptionOutput{
		SubscriptionID:    sub.ID,
		Status:            string(sub.Status),
		CurrentPeriodEnd:  time.Unix(sub.CurrentPeriodEnd, 0),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if len(sub.Items.Data) > 0 {
		out.PriceID = sub.Items.Data[0].Price.ID
	}
	return out
}

// CancelAtPeriodEnd schedules a subscription for cancellation at the end of
// the current billing period.
func (a *StripeAdapter) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*SubscriptionOutput, error) {
	a.logger.Debug("Canceling Stripe subscription at period end",
		zap.String("subscription_id", subscriptionID))

	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}

	sub, err := subscription.Update(subscriptionID, params)
	if err != nil {
		a.logger.Error("Failed to cancel Stripe subscription",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to cancel subscription: %w", err)
	}

	a.logger.Info("Scheduled Stripe subscription cancellation",
		zap.String("subscription_id", sub.ID),
		zap.Time("current_period_end", time.Unix(sub.CurrentPeriodEnd, 0)))

	return subscriptionOutput(sub), nil
}

// ResumeSubscription clears a pending cancel-at-period-end
func (a *StripeAdapter) ResumeSubscription(ctx context.Context, subscriptionID string) (*SubscriptionOutput, error) {
	a.logger.Debug("Resuming Stripe subscription",
		zap.String("subscription_id", subscriptionID))

	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(false),
	}

	sub, err := subscription.Update(subscriptionID, params)
	if err != nil {
		a.logger.Error("Failed to resume Stripe subscription",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to resume subscription: %w", err)
	}

	a.logger.Info("Resumed Stripe subscription",
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(sub.Status)))

	return subscriptionOutput(sub), nil
}

// SwitchPlan moves a subscription to a different plan's price with prorations
func (a *StripeAdapter) SwitchPlan(ctx context.Context, subscriptionID string, plan Plan) (*SubscriptionOutput, error) {
	a.logger.Debug("Switching Stripe subscription plan",
		zap.String("subscription_id", subscriptionID),
		zap.String("plan", string(plan)))

	priceID, err := a.config.GetPriceID(plan)
	if err != nil {
		return nil, err
	}

	sub, err := subscription.Get(subscriptionID, nil)
	if err != nil {
		a.logger.Error("Failed to get Stripe subscription",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to get subscription: %w", err)
	}
	if len(sub.Items.Data) == 0 {
		return nil, fmt.Errorf("stripe: subscription has no items")
	}

	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(sub.Items.Data[0].ID),
				Price: stripe.String(priceID),
			},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	}

	updated, err := subscription.Update(subscriptionID, params)
	if err != nil {
		a.logger.Error("Failed to switch Stripe subscription plan",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to switch plan: %w", err)
	}

	a.logger.Info("Switched Stripe subscription plan",
		zap.String("subscription_id", updated.ID),
		zap.String("new_price", priceID))

	return subscriptionOutput(updated), nil
}

// CancelNow cancels a subscription immediately. Used during account deletion.
func (a *StripeAdapter) CancelNow(ctx context.Context, subscriptionID string) error {
	a.logger.Debug("Canceling Stripe subscription immediately",
		zap.String("subscription_id", subscriptionID))

	_, err := subscription.Cancel(subscriptionID, nil)
	if err != nil {
		a.logger.Error("Failed to cancel Stripe subscription",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to cancel subscription: %w", err)
	}

	a.logger.Info("Canceled Stripe subscription", zap.String("subscription_id", subscriptionID))
	return nil
}
