package shared

import (
	"github.com/google/uuid"
)

// ContractorAggregateRoot provides common fields for aggregates owned by a
// single contractor. All queries against these aggregates must be scoped by
// ContractorID; cross-tenant access is prevented by query predicates.
type ContractorAggregateRoot struct {
	BaseEntity
	ContractorID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewContractorAggregateRoot creates a new contractor-scoped aggregate root
func NewContractorAggregateRoot(contractorID uuid.UUID) ContractorAggregateRoot {
	return ContractorAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		ContractorID: contractorID,
	}
}

// BelongsTo reports whether the aggregate is owned by the given contractor
func (a *ContractorAggregateRoot) BelongsTo(contractorID uuid.UUID) bool {
	return a.ContractorID == contractorID
}
