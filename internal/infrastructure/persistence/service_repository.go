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

// GormServiceRepository implements quoting.ServiceRepository using GORM
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// Save persists a new price-list entry
func (r *GormServiceRepository) Save(ctx context.Context, service *quoting.Service) error {
	var model models.ServiceModel
	model.FromDomain(service)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing entry
func (r *GormServiceRepository) Update(ctx context.Context, service *quoting.Service) error {
	var model models.ServiceModel
	model.FromDomain(service)
	result := r.db.WithContext(ctx).Model(&models.ServiceModel{}).
		Where("contractor_id = ? AND id = ?", service.ContractorID, service.ID).
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

// FindByID finds an entry by ID within a contractor's price list
func (r *GormServiceRepository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*quoting.Service, error) {
	var model models.ServiceModel
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

// FindAll returns a contractor's full price list ordered by name
func (r *GormServiceRepository) FindAll(ctx context.Context, contractorID uuid.UUID) ([]quoting.Service, error) {
	var serviceModels []models.ServiceModel
	if err := r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Order("name asc").
		Find(&serviceModels).Error; err != nil {
		return nil, err
	}
	services := make([]quoting.Service, len(serviceModels))
	for i, model := range serviceModels {
		services[i] = *model.ToDomain()
	}
	return services, nil
}

// Delete removes an entry from a contractor's price list
func (r *GormServiceRepository) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("contractor_id = ? AND id = ?", contractorID, id).
		Delete(&models.ServiceModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForContractor removes all entries owned by a contractor
func (r *GormServiceRepository) DeleteAllForContractor(ctx context.Context, contractorID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Delete(&models.ServiceModel{}).Error
}
