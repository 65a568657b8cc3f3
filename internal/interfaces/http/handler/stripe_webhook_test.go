package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/brickquote/backend/internal/application/billing"
	"github.com/brickquote/backend/internal/interfaces/http/dto"
)

type MockWebhookProcessor struct {
	mock.Mock
}

func (m *MockWebhookProcessor) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*appbilling.WebhookResult, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.WebhookResult), args.Error(1)
}

func performWebhookRequest(t *testing.T, processor *MockWebhookProcessor, body string) *httptest.ResponseRecorder {
	h := NewStripeWebhookHandler(processor, zap.NewNop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewBufferString(body))
	c.Request.Header.Set("Stripe-Signature", "t=1,v1=sig")

	h.Handle(c)
	return w
}

func decodeWebhookError(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestStripeWebhookHandler_UnverifiedPayloadIsBadRequest(t *testing.T) {
	processor := new(MockWebhookProcessor)
	processor.On("ProcessWebhook", mock.Anything, mock.Anything, "t=1,v1=sig").
		Return(nil, appbilling.ErrSignatureVerification)

	w := performWebhookRequest(t, processor, `{"type": "checkout.session.completed"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeWebhookError(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Webhook verification failed", resp.Error.Message)
}

func TestStripeWebhookHandler_ProcessingFailureIsServerError(t *testing.T) {
	processor := new(MockWebhookProcessor)
	processor.On("ProcessWebhook", mock.Anything, mock.Anything, "t=1,v1=sig").
		Return(nil, errors.New("failed to update profile: connection refused"))

	w := performWebhookRequest(t, processor, `{"type": "customer.subscription.updated"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeWebhookError(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.Equal(t, "Webhook processing failed", resp.Error.Message)
}

func TestStripeWebhookHandler_VerifiedEventIsAcknowledged(t *testing.T) {
	processor := new(MockWebhookProcessor)
	processor.On("ProcessWebhook", mock.Anything, mock.Anything, "t=1,v1=sig").
		Return(&appbilling.WebhookResult{EventID: "evt_1", EventType: "invoice.payment_succeeded", Processed: true}, nil)

	w := performWebhookRequest(t, processor, `{"type": "invoice.payment_succeeded"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	processor.AssertExpectations(t)
}
