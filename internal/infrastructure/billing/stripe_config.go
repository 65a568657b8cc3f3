package billing

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
)

// Plan identifies a subscription billing interval
type Plan string

const (
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

// IsValid checks if the plan is valid
func (p Plan) IsValid() bool {
	return p == PlanMonthly || p == PlanYearly
}

// StripeConfig holds configuration for Stripe integration
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string

	// WebhookSecret is the secret for verifying webhook signatures
	WebhookSecret string

	// PriceIDs maps plans to Stripe Price IDs
	PriceIDs map[Plan]string

	// SuccessURL is the URL to redirect after successful checkout
	SuccessURL string

	// CancelURL is the URL to redirect after cancelled checkout
	CancelURL string

	// BillingPortalReturnURL is the return URL from the Stripe billing portal
	BillingPortalReturnURL string
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if !strings.HasPrefix(c.SecretKey, "sk_") {
		return fmt.Errorf("stripe: secret key must start with sk_")
	}
	if len(c.PriceIDs) == 0 {
		return fmt.Errorf("stripe: at least one price ID is required")
	}
	return nil
}

// GetPriceID returns the Stripe Price ID for a given plan
func (c *StripeConfig) GetPriceID(plan Plan) (string, error) {
	priceID, exists := c.PriceIDs[plan]
	if !exists || priceID == "" {
		return "", fmt.Errorf("stripe: no price ID configured for plan: %s", plan)
	}
	return priceID, nil
}

// PlanForPriceID returns the plan a Stripe Price ID belongs to
func (c *StripeConfig) PlanForPriceID(priceID string) (Plan, bool) {
	for plan, id := range c.PriceIDs {
		if id == priceID {
			return plan, true
		}
	}
	return "", false
}

// InitStripeClient initializes the Stripe client with the configured API key
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.SecretKey
}
