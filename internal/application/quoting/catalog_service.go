package quoting

import (
	"context"

	"github.com/google/uuid"

	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
)

// CatalogService manages a contractor's price list
type CatalogService struct {
	serviceRepo quoting.ServiceRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(serviceRepo quoting.ServiceRepository) *CatalogService {
	return &CatalogService{serviceRepo: serviceRepo}
}

// Create adds a price-list entry
func (s *CatalogService) Create(ctx context.Context, contractorID uuid.UUID, req CreateServiceRequest) (*ServiceResponse, error) {
	unit := quoting.ServiceUnit(req.Unit)
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown service unit")
	}

	service, err := quoting.NewService(contractorID, req.Name, unit, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Save(ctx, service); err != nil {
		return nil, err
	}

	resp := ToServiceResponse(service)
	return &resp, nil
}

// CreateBatch adds several price-list entries at once. Used when the
// contractor accepts AI-suggested services. Invalid entries fail the batch.
func (s *CatalogService) CreateBatch(ctx context.Context, contractorID uuid.UUID, reqs []CreateServiceRequest) ([]ServiceResponse, error) {
	if len(reqs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No services to create")
	}

	responses := make([]ServiceResponse, 0, len(reqs))
	for _, req := range reqs {
		resp, err := s.Create(ctx, contractorID, req)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// GetByID retrieves one price-list entry
func (s *CatalogService) GetByID(ctx context.Context, contractorID, serviceID uuid.UUID) (*ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, contractorID, serviceID)
	if err != nil {
		return nil, err
	}
	resp := ToServiceResponse(service)
	return &resp, nil
}

// List retrieves the contractor's full price list
func (s *CatalogService) List(ctx context.Context, contractorID uuid.UUID) ([]ServiceResponse, error) {
	services, err := s.serviceRepo.FindAll(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	responses := make([]ServiceResponse, len(services))
	for i := range services {
		responses[i] = ToServiceResponse(&services[i])
	}
	return responses, nil
}

// Update modifies a price-list entry
func (s *CatalogService) Update(ctx context.Context, contractorID, serviceID uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error) {
	unit := quoting.ServiceUnit(req.Unit)
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown service unit")
	}

	service, err := s.serviceRepo.FindByID(ctx, contractorID, serviceID)
	if err != nil {
		return nil, err
	}
	if err := service.Update(req.Name, unit, req.UnitPrice); err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, err
	}

	resp := ToServiceResponse(service)
	return &resp, nil
}

// Delete removes a price-list entry
func (s *CatalogService) Delete(ctx context.Context, contractorID, serviceID uuid.UUID) error {
	return s.serviceRepo.Delete(ctx, contractorID, serviceID)
}
