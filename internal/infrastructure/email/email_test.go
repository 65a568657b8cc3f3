package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDocumentData() DocumentData {
	return DocumentData{
		ClientName:     "Jane Smith",
		ContractorName: "Acme Builders",
		Items: []ItemRow{
			{Name: "Wall painting", Quantity: "50", Unit: "m2", UnitPrice: "$20.00", Total: "$1000.00"},
		},
		Subtotal:   "$1000.00",
		TotalNet:   "$900.00",
		TotalGross: "$1080.00",
	}
}

func TestQuoteEmail_OmitsZeroDiscountAndTax(t *testing.T) {
	msg, err := QuoteEmail("client@example.com", testDocumentData())
	require.NoError(t, err)

	assert.Contains(t, msg.HTML, "Wall painting")
	assert.Contains(t, msg.HTML, "$1080.00")
	assert.NotContains(t, msg.HTML, "Discount")
	assert.NotContains(t, msg.HTML, "Net:")
}

func TestQuoteEmail_RendersDiscountAndTaxRows(t *testing.T) {
	data := testDocumentData()
	data.DiscountPercent = "10"
	data.DiscountAmount = "$100.00"
	data.TaxLabel = "VAT"
	data.TaxPercent = "20"
	data.TaxAmount = "$180.00"

	msg, err := QuoteEmail("client@example.com", data)
	require.NoError(t, err)

	assert.Contains(t, msg.HTML, "Discount (10%)")
	assert.Contains(t, msg.HTML, "VAT (20%)")
	assert.Contains(t, msg.HTML, "$180.00")
}

func TestQuoteEmail_EscapesClientContent(t *testing.T) {
	data := testDocumentData()
	data.Notes = `<script>alert("x")</script>`

	msg, err := QuoteEmail("client@example.com", data)
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestInvoiceEmail_IncludesBankDetails(t *testing.T) {
	data := testDocumentData()
	data.InvoiceNumber = "INV-2026-0004"
	data.BankName = "First National"
	data.BankAccount = "12345678"
	data.BankRouting = "021000021"

	msg, err := InvoiceEmail("client@example.com", data, "Routing number")
	require.NoError(t, err)

	assert.Contains(t, msg.Subject, "INV-2026-0004")
	assert.Contains(t, msg.HTML, "First National")
	assert.Contains(t, msg.HTML, "Routing number: 021000021")
}

func TestQuoteDecisionEmail_IncludesUnsubscribeFooter(t *testing.T) {
	msg, err := QuoteDecisionEmail("pro@example.com", NotificationData{
		ContractorName: "Acme Builders",
		ClientName:     "Jane Smith",
		UnsubscribeURL: "https://app.example.com/unsubscribe?token=abc",
	}, true)
	require.NoError(t, err)

	assert.Equal(t, "Quote accepted", msg.Subject)
	assert.Contains(t, msg.HTML, "unsubscribe?token=abc")
}

func TestClient_Send(t *testing.T) {
	var got sendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(sendResponse{ID: "email_123"})
	}))
	defer srv.Close()

	client, err := NewClient(&Config{
		APIKey:    "re_test_key",
		BaseURL:   srv.URL,
		FromName:  "BrickQuote",
		FromEmail: "no-reply@example.com",
	}, zap.NewNop())
	require.NoError(t, err)

	err = client.Send(context.Background(), Message{
		To:      "client@example.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test_key", auth)
	assert.Equal(t, []string{"client@example.com"}, got.To)
	assert.Equal(t, "BrickQuote <no-reply@example.com>", got.From)
}

func TestClient_SendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(sendResponse{Message: "invalid recipient"})
	}))
	defer srv.Close()

	client, err := NewClient(&Config{
		APIKey:    "re_test_key",
		BaseURL:   srv.URL,
		FromName:  "BrickQuote",
		FromEmail: "no-reply@example.com",
	}, zap.NewNop())
	require.NoError(t, err)

	err = client.Send(context.Background(), Message{To: "bad", Subject: "x", HTML: "y"})
	assert.Error(t, err)
}
