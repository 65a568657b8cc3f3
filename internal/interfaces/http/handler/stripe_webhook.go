package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbilling "github.com/brickquote/backend/internal/application/billing"
	"github.com/brickquote/backend/internal/interfaces/http/dto"
)

// WebhookProcessor verifies and dispatches a raw Stripe webhook payload
type WebhookProcessor interface {
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (*appbilling.WebhookResult, error)
}

// StripeWebhookHandler receives webhook events from Stripe
type StripeWebhookHandler struct {
	BaseHandler
	webhookService WebhookProcessor
	logger         *zap.Logger
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(webhookService WebhookProcessor, logger *zap.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{webhookService: webhookService, logger: logger}
}

// Handle handles POST /api/v1/webhooks/stripe. The signature is checked
// against the raw body, so the payload must not pass through any JSON
// binding before verification. Unverified payloads get a 400; failures
// after verification get a 500 so Stripe retries the delivery.
func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("failed to read stripe webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "Unable to read request body"))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	result, err := h.webhookService.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, appbilling.ErrSignatureVerification) {
			h.logger.Warn("stripe webhook rejected", zap.Error(err))
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "Webhook verification failed"))
			return
		}
		h.logger.Error("stripe webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, "Webhook processing failed"))
		return
	}

	h.Success(c, result)
}
