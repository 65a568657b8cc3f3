package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/brickquote/backend/internal/domain/invoicing"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save persists a new invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	var model models.InvoiceModel
	if err := model.FromDomain(invoice); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *invoicing.Invoice) error {
	var model models.InvoiceModel
	if err := model.FromDomain(invoice); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("id = ?", invoice.ID).
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

// FindByID finds an invoice by ID within a contractor's data
func (r *GormInvoiceRepository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
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

// FindByToken finds an invoice by its public share token
func (r *GormInvoiceRepository) FindByToken(ctx context.Context, token string) (*invoicing.Invoice, error) {
	if !shared.IsValidDocumentToken(token) {
		return nil, shared.ErrNotFound
	}
	var model models.InvoiceModel
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

// FindAll returns a contractor's invoices, newest first
func (r *GormInvoiceRepository) FindAll(ctx context.Context, contractorID uuid.UUID) ([]invoicing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Order("created_at desc").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]invoicing.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		inv, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		invoices[i] = *inv
	}
	return invoices, nil
}

// CountForYear counts a contractor's invoices created in the given year.
// Used for sequential invoice numbering.
func (r *GormInvoiceRepository) CountForYear(ctx context.Context, contractorID uuid.UUID, year int) (int64, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("contractor_id = ? AND created_at >= ? AND created_at < ?", contractorID, start, end).
		Count(&count).Error
	return count, err
}

// Delete removes an invoice owned by a contractor
func (r *GormInvoiceRepository) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("contractor_id = ? AND id = ?", contractorID, id).
		Delete(&models.InvoiceModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForContractor removes all invoices owned by a contractor
func (r *GormInvoiceRepository) DeleteAllForContractor(ctx context.Context, contractorID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Delete(&models.InvoiceModel{}).Error
}

// MarkPaidIfSent atomically transitions a sent invoice to paid. Returns
// false when the status guard did not match any row.
func (r *GormInvoiceRepository) MarkPaidIfSent(ctx context.Context, token string) (bool, error) {
	if !shared.IsValidDocumentToken(token) {
		return false, shared.ErrNotFound
	}
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("token = ? AND status = ?", token, string(invoicing.InvoiceStatusSent)).
		Updates(map[string]interface{}{
			"status":     string(invoicing.InvoiceStatusPaid),
			"paid_at":    now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
