package persistence

import (
	"context"
	"testing"

	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupQuoteTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.QuoteModel{}))
	return db
}

func createTestQuote(t *testing.T, contractorID uuid.UUID, sent bool) *quoting.Quote {
	t.Helper()
	quote, err := quoting.NewQuote(contractorID, uuid.New())
	require.NoError(t, err)
	item, err := quoting.NewQuoteItem("Repointing", decimal.NewFromInt(18), quoting.UnitSquareMeter, decimal.NewFromInt(45))
	require.NoError(t, err)
	require.NoError(t, quote.SetItems([]quoting.QuoteItem{item}))
	if sent {
		require.NoError(t, quote.Send())
	}
	return quote
}

func TestGormQuoteRepository_SaveAndFindByID(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	contractorID := uuid.New()
	quote := createTestQuote(t, contractorID, false)
	require.NoError(t, repo.Save(ctx, quote))

	found, err := repo.FindByID(ctx, contractorID, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, quote.ID, found.ID)
	assert.Equal(t, quoting.QuoteStatusDraft, found.Status)
	assert.Len(t, found.Items, 1)
	assert.Equal(t, "Repointing", found.Items[0].ServiceName)
	assert.True(t, found.TotalGross.Equal(quote.TotalGross))

	// Another contractor cannot see the quote
	_, err = repo.FindByID(ctx, uuid.New(), quote.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormQuoteRepository_FindByToken(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	quote := createTestQuote(t, uuid.New(), true)
	require.NoError(t, repo.Save(ctx, quote))

	found, err := repo.FindByToken(ctx, quote.Token)
	require.NoError(t, err)
	assert.Equal(t, quote.ID, found.ID)

	_, err = repo.FindByToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormQuoteRepository_Update(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	contractorID := uuid.New()
	quote := createTestQuote(t, contractorID, false)
	require.NoError(t, repo.Save(ctx, quote))

	require.NoError(t, quote.SetNotes("Price valid for 30 days"))
	require.NoError(t, repo.Update(ctx, quote))

	found, err := repo.FindByID(ctx, contractorID, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "Price valid for 30 days", found.Notes)

	missing := createTestQuote(t, contractorID, false)
	assert.ErrorIs(t, repo.Update(ctx, missing), shared.ErrNotFound)
}

func TestGormQuoteRepository_UpdateStatusIfSent(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	contractorID := uuid.New()
	quote := createTestQuote(t, contractorID, true)
	require.NoError(t, repo.Save(ctx, quote))

	won, err := repo.UpdateStatusIfSent(ctx, quote.Token, quoting.QuoteStatusAccepted)
	require.NoError(t, err)
	assert.True(t, won)

	// The guard no longer matches once the quote is decided
	won, err = repo.UpdateStatusIfSent(ctx, quote.Token, quoting.QuoteStatusRejected)
	require.NoError(t, err)
	assert.False(t, won)

	found, err := repo.FindByToken(ctx, quote.Token)
	require.NoError(t, err)
	assert.Equal(t, quoting.QuoteStatusAccepted, found.Status)
	assert.NotNil(t, found.AcceptedAt)
}

func TestGormQuoteRepository_UpdateStatusIfSent_Draft(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	quote := createTestQuote(t, uuid.New(), false)
	require.NoError(t, repo.Save(ctx, quote))

	won, err := repo.UpdateStatusIfSent(ctx, quote.Token, quoting.QuoteStatusAccepted)
	require.NoError(t, err)
	assert.False(t, won)
}

func TestGormQuoteRepository_MarkViewedIfFirst(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	quote := createTestQuote(t, uuid.New(), true)
	require.NoError(t, repo.Save(ctx, quote))

	first, err := repo.MarkViewedIfFirst(ctx, quote.Token)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := repo.MarkViewedIfFirst(ctx, quote.Token)
	require.NoError(t, err)
	assert.False(t, again)

	found, err := repo.FindByToken(ctx, quote.Token)
	require.NoError(t, err)
	assert.NotNil(t, found.ViewedAt)
}

func TestGormQuoteRepository_Delete(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	contractorID := uuid.New()
	quote := createTestQuote(t, contractorID, false)
	require.NoError(t, repo.Save(ctx, quote))

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New(), quote.ID), shared.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, contractorID, quote.ID))
	_, err := repo.FindByID(ctx, contractorID, quote.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormQuoteRepository_DeleteAllForContractor(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	contractorID := uuid.New()
	otherID := uuid.New()
	require.NoError(t, repo.Save(ctx, createTestQuote(t, contractorID, false)))
	require.NoError(t, repo.Save(ctx, createTestQuote(t, contractorID, true)))
	kept := createTestQuote(t, otherID, false)
	require.NoError(t, repo.Save(ctx, kept))

	require.NoError(t, repo.DeleteAllForContractor(ctx, contractorID))

	mine, err := repo.FindAll(ctx, contractorID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := repo.FindAll(ctx, otherID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
	assert.Equal(t, kept.ID, theirs[0].ID)
}
