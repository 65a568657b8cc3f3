package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuoteRepository implements quoting.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// Save persists a new quote
func (r *GormQuoteRepository) Save(ctx context.Context, quote *quoting.Quote) error {
	var model models.QuoteModel
	if err := model.FromDomain(quote); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing quote
func (r *GormQuoteRepository) Update(ctx context.Context, quote *quoting.Quote) error {
	var model models.QuoteModel
	if err := model.FromDomain(quote); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&models.QuoteModel{}).
		Where("id = ?", quote.ID).
		Select("*").Omit("id", "contractor_id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a quote by ID within a contractor's data
func (r *GormQuoteRepository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*quoting.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Where("contractor_id = ? AND id = ?", contractorID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByToken finds a quote by its public share token
func (r *GormQuoteRepository) FindByToken(ctx context.Context, token string) (*quoting.Quote, error) {
	if !shared.IsValidDocumentToken(token) {
		return nil, shared.ErrNotFound
	}
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll returns a contractor's quotes, newest first
func (r *GormQuoteRepository) FindAll(ctx context.Context, contractorID uuid.UUID) ([]quoting.Quote, error) {
	var quoteModels []models.QuoteModel
	if err := r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Order("created_at desc").
		Find(&quoteModels).Error; err != nil {
		return nil, err
	}
	return toQuotes(quoteModels)
}

// FindByRequestID returns the quotes created for a request
func (r *GormQuoteRepository) FindByRequestID(ctx context.Context, contractorID, requestID uuid.UUID) ([]quoting.Quote, error) {
	var quoteModels []models.QuoteModel
	if err := r.db.WithContext(ctx).
		Where("contractor_id = ? AND request_id = ?", contractorID, requestID).
		Order("created_at desc").
		Find(&quoteModels).Error; err != nil {
		return nil, err
	}
	return toQuotes(quoteModels)
}

// Delete removes a quote owned by a contractor
func (r *GormQuoteRepository) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("contractor_id = ? AND id = ?", contractorID, id).
		Delete(&models.QuoteModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForContractor removes all quotes owned by a contractor
func (r *GormQuoteRepository) DeleteAllForContractor(ctx context.Context, contractorID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Delete(&models.QuoteModel{}).Error
}

// UpdateStatusIfSent atomically transitions a sent quote. The status
// predicate makes the guard race-free: a concurrent accept and reject
// cannot both match.
func (r *GormQuoteRepository) UpdateStatusIfSent(ctx context.Context, token string, target quoting.QuoteStatus) (bool, error) {
	if !shared.IsValidDocumentToken(token) {
		return false, shared.ErrNotFound
	}
	updates := map[string]interface{}{
		"status":     string(target),
		"updated_at": time.Now(),
	}
	if target == quoting.QuoteStatusAccepted {
		updates["accepted_at"] = time.Now()
	}
	result := r.db.WithContext(ctx).Model(&models.QuoteModel{}).
		Where("token = ? AND status = ?", token, string(quoting.QuoteStatusSent)).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkViewedIfFirst stamps viewed_at only on the first view of a sent quote
func (r *GormQuoteRepository) MarkViewedIfFirst(ctx context.Context, token string) (bool, error) {
	if !shared.IsValidDocumentToken(token) {
		return false, shared.ErrNotFound
	}
	result := r.db.WithContext(ctx).Model(&models.QuoteModel{}).
		Where("token = ? AND viewed_at IS NULL AND status = ?", token, string(quoting.QuoteStatusSent)).
		Update("viewed_at", time.Now())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func toQuotes(quoteModels []models.QuoteModel) ([]quoting.Quote, error) {
	quotes := make([]quoting.Quote, len(quoteModels))
	for i, model := range quoteModels {
		q, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		quotes[i] = *q
	}
	return quotes, nil
}
