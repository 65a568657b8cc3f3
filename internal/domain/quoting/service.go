package quoting

import (
	"strings"

	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceUnit is the billing unit of a price-list entry
type ServiceUnit string

const (
	UnitSquareMeter ServiceUnit = "m2"      // square meter (floors, walls, painting)
	UnitLinearMeter ServiceUnit = "mb"      // linear meter (skirting, pipes, cables)
	UnitPiece       ServiceUnit = "szt"     // piece (doors, sockets, fixtures)
	UnitHour        ServiceUnit = "godz"    // hour (specialist work)
	UnitFlatRate    ServiceUnit = "ryczalt" // flat rate (turnkey jobs, transport)
)

// AllServiceUnits lists every valid unit
var AllServiceUnits = []ServiceUnit{UnitSquareMeter, UnitLinearMeter, UnitPiece, UnitHour, UnitFlatRate}

// IsValid checks if the unit is a known ServiceUnit
func (u ServiceUnit) IsValid() bool {
	switch u {
	case UnitSquareMeter, UnitLinearMeter, UnitPiece, UnitHour, UnitFlatRate:
		return true
	}
	return false
}

// String returns the string representation of the unit
func (u ServiceUnit) String() string {
	return string(u)
}

// Label returns the display label for the unit
func (u ServiceUnit) Label() string {
	switch u {
	case UnitSquareMeter:
		return "m²"
	case UnitLinearMeter:
		return "mb"
	case UnitPiece:
		return "szt."
	case UnitHour:
		return "godz."
	case UnitFlatRate:
		return "ryczałt"
	}
	return string(u)
}

// Service is a contractor's reusable price-list entry
type Service struct {
	shared.ContractorAggregateRoot
	Name      string
	Unit      ServiceUnit
	UnitPrice decimal.Decimal
}

// NewService creates a new price-list entry
func NewService(contractorID uuid.UUID, name string, unit ServiceUnit, unitPrice decimal.Decimal) (*Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Service name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Service name cannot exceed 200 characters")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown service unit")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Service{
		ContractorAggregateRoot: shared.NewContractorAggregateRoot(contractorID),
		Name:                    name,
		Unit:                    unit,
		UnitPrice:               unitPrice,
	}, nil
}

// Update changes the entry's name, unit and price
func (s *Service) Update(name string, unit ServiceUnit, unitPrice decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Service name cannot be empty")
	}
	if !unit.IsValid() {
		return shared.NewDomainError("INVALID_UNIT", "Unknown service unit")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	s.Name = name
	s.Unit = unit
	s.UnitPrice = unitPrice
	s.Touch()
	return nil
}
