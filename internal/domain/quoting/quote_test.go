package quoting

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickquote/backend/internal/domain/shared"
)

func newDraftQuote(t *testing.T) *Quote {
	t.Helper()
	q, err := NewQuote(uuid.New(), uuid.New())
	require.NoError(t, err)
	return q
}

func testItems(t *testing.T) []QuoteItem {
	t.Helper()
	item, err := NewQuoteItem("Wall plastering", dec("25"), UnitSquareMeter, dec("12.50"))
	require.NoError(t, err)
	return []QuoteItem{item}
}

func TestNewQuote(t *testing.T) {
	q := newDraftQuote(t)

	assert.Equal(t, QuoteStatusDraft, q.Status)
	assert.True(t, shared.IsValidDocumentToken(q.Token))
	assert.Empty(t, q.Items)
	assert.True(t, q.IsEditable())
}

func TestNewQuote_RequiresRequest(t *testing.T) {
	_, err := NewQuote(uuid.New(), uuid.Nil)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_REQUEST", domainErr.Code)
}

func TestNewQuoteItem_DerivesTotal(t *testing.T) {
	item, err := NewQuoteItem("Tiling", dec("10.5"), UnitSquareMeter, dec("30"))
	require.NoError(t, err)

	assert.True(t, dec("315").Equal(item.Total), "total = %s", item.Total)
}

func TestNewQuoteItem_Validation(t *testing.T) {
	_, err := NewQuoteItem("", dec("1"), UnitPiece, dec("10"))
	assert.Error(t, err)

	_, err = NewQuoteItem("Door fitting", decimal.Zero, UnitPiece, dec("10"))
	assert.Error(t, err)

	_, err = NewQuoteItem("Door fitting", dec("1"), ServiceUnit("bogus"), dec("10"))
	assert.Error(t, err)

	_, err = NewQuoteItem("Door fitting", dec("1"), UnitPiece, dec("-5"))
	assert.Error(t, err)
}

func TestQuote_SetItemsRecomputesTotals(t *testing.T) {
	q := newDraftQuote(t)

	require.NoError(t, q.SetItems(testItems(t)))
	require.NoError(t, q.SetPercentages(dec("10"), dec("20")))

	// 25 * 12.50 = 312.50, -10% = 281.25, +20% tax = 337.50
	assert.True(t, dec("312.50").Equal(q.Subtotal))
	assert.True(t, dec("281.25").Equal(q.TotalNet))
	assert.True(t, dec("56.25").Equal(q.TotalTax))
	assert.True(t, dec("337.50").Equal(q.TotalGross))
}

func TestQuote_MaterialsIncludedInSubtotal(t *testing.T) {
	q := newDraftQuote(t)
	require.NoError(t, q.SetItems(testItems(t)))

	m, err := NewQuoteMaterial("Adhesive", dec("4"), dec("21.90"))
	require.NoError(t, err)
	require.NoError(t, q.SetMaterials([]QuoteMaterial{m}))

	// 312.50 + 87.60
	assert.True(t, dec("400.10").Equal(q.Subtotal), "subtotal = %s", q.Subtotal)
}

func TestQuote_SendRequiresItems(t *testing.T) {
	q := newDraftQuote(t)

	err := q.Send()
	require.Error(t, err)
	assert.Equal(t, QuoteStatusDraft, q.Status)
}

func TestQuote_Lifecycle(t *testing.T) {
	q := newDraftQuote(t)
	require.NoError(t, q.SetItems(testItems(t)))

	require.NoError(t, q.Send())
	assert.Equal(t, QuoteStatusSent, q.Status)
	require.NotNil(t, q.SentAt)
	assert.False(t, q.IsEditable())

	// Sent quotes are immutable
	assert.ErrorIs(t, q.SetItems(testItems(t)), shared.ErrInvalidState)
	assert.ErrorIs(t, q.SetNotes("late edit"), shared.ErrInvalidState)

	require.NoError(t, q.Accept())
	assert.Equal(t, QuoteStatusAccepted, q.Status)
	require.NotNil(t, q.AcceptedAt)

	// Terminal: no further transitions
	assert.ErrorIs(t, q.Reject(), shared.ErrInvalidState)
	assert.ErrorIs(t, q.Send(), shared.ErrInvalidState)
}

func TestQuote_RejectOnlyWhenSent(t *testing.T) {
	q := newDraftQuote(t)
	require.NoError(t, q.SetItems(testItems(t)))

	assert.ErrorIs(t, q.Reject(), shared.ErrInvalidState)

	require.NoError(t, q.Send())
	require.NoError(t, q.Reject())
	assert.Equal(t, QuoteStatusRejected, q.Status)
}

func TestQuote_MarkViewedOnlyOnce(t *testing.T) {
	q := newDraftQuote(t)
	require.NoError(t, q.SetItems(testItems(t)))

	// Draft quotes are not viewable
	assert.False(t, q.MarkViewed())

	require.NoError(t, q.Send())
	assert.True(t, q.MarkViewed())
	first := *q.ViewedAt

	time.Sleep(time.Millisecond)
	assert.False(t, q.MarkViewed())
	assert.Equal(t, first, *q.ViewedAt)
}

func TestQuote_SetPercentagesValidation(t *testing.T) {
	q := newDraftQuote(t)

	assert.Error(t, q.SetPercentages(dec("-1"), decimal.Zero))
	assert.Error(t, q.SetPercentages(decimal.Zero, dec("101")))
	assert.NoError(t, q.SetPercentages(dec("100"), dec("100")))
}
