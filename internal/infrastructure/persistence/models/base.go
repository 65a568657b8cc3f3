package models

import (
	"time"

	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// FromBaseEntity populates the base fields from a domain entity
func (m *BaseModel) FromBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// ToBaseEntity converts the base fields to a domain entity
func (m *BaseModel) ToBaseEntity() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ContractorModel provides common fields for contractor-owned rows
type ContractorModel struct {
	BaseModel
	ContractorID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromAggregate populates the fields from a contractor aggregate root
func (m *ContractorModel) FromAggregate(a shared.ContractorAggregateRoot) {
	m.FromBaseEntity(a.BaseEntity)
	m.ContractorID = a.ContractorID
}

// ToAggregate converts the fields to a contractor aggregate root
func (m *ContractorModel) ToAggregate() shared.ContractorAggregateRoot {
	return shared.ContractorAggregateRoot{
		BaseEntity:   m.ToBaseEntity(),
		ContractorID: m.ContractorID,
	}
}
