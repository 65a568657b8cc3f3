package persistence

import (
	"context"
	"errors"

	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuoteRequestRepository implements quoting.QuoteRequestRepository using GORM
type GormQuoteRequestRepository struct {
	db *gorm.DB
}

// NewGormQuoteRequestRepository creates a new GormQuoteRequestRepository
func NewGormQuoteRequestRepository(db *gorm.DB) *GormQuoteRequestRepository {
	return &GormQuoteRequestRepository{db: db}
}

// Save persists a new quote request
func (r *GormQuoteRequestRepository) Save(ctx context.Context, request *quoting.QuoteRequest) error {
	var model models.QuoteRequestModel
	model.FromDomain(request)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing quote request
func (r *GormQuoteRequestRepository) Update(ctx context.Context, request *quoting.QuoteRequest) error {
	var model models.QuoteRequestModel
	model.FromDomain(request)
	result := r.db.WithContext(ctx).Model(&models.QuoteRequestModel{}).
		Where("id = ?", request.ID).
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

// FindByID finds a request by ID within a contractor's data
func (r *GormQuoteRequestRepository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*quoting.QuoteRequest, error) {
	var model models.QuoteRequestModel
	if err := r.db.WithContext(ctx).
		Where("contractor_id = ? AND id = ?", contractorID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDUnscoped finds a request by ID regardless of owner. Used by
// token-authenticated flows that mirror quote outcomes onto the request.
func (r *GormQuoteRequestRepository) FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*quoting.QuoteRequest, error) {
	var model models.QuoteRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns a contractor's requests, optionally filtered by status,
// newest first
func (r *GormQuoteRequestRepository) FindAll(ctx context.Context, contractorID uuid.UUID, status *quoting.RequestStatus) ([]quoting.QuoteRequest, error) {
	query := r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Order("created_at desc")
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var requestModels []models.QuoteRequestModel
	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}
	requests := make([]quoting.QuoteRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests, nil
}

// Delete removes a request owned by a contractor
func (r *GormQuoteRequestRepository) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("contractor_id = ? AND id = ?", contractorID, id).
		Delete(&models.QuoteRequestModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForContractor removes all requests owned by a contractor
func (r *GormQuoteRequestRepository) DeleteAllForContractor(ctx context.Context, contractorID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Delete(&models.QuoteRequestModel{}).Error
}
