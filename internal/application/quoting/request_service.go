package quoting

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/application/notification"
	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
)

// RequestService handles quote-request intake and management
type RequestService struct {
	requestRepo quoting.QuoteRequestRepository
	profileRepo identity.ProfileRepository
	notifier    *notification.Service
	logger      *zap.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo quoting.QuoteRequestRepository,
	profileRepo identity.ProfileRepository,
	notifier *notification.Service,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Intake records a quote request submitted through a contractor's public
// share link and notifies the contractor.
func (s *RequestService) Intake(ctx context.Context, contractorID uuid.UUID, req IntakeRequest) (*QuoteRequestResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	request, err := quoting.NewQuoteRequest(contractorID,
		req.ClientName, req.ClientEmail, req.ClientPhone,
		req.Address, req.Description, req.PhotoURLs)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	s.notifier.RequestReceived(ctx, profile, request)

	resp := ToQuoteRequestResponse(request)
	return &resp, nil
}

// GetByID retrieves one quote request
func (s *RequestService) GetByID(ctx context.Context, contractorID, requestID uuid.UUID) (*QuoteRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, contractorID, requestID)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteRequestResponse(request)
	return &resp, nil
}

// List retrieves the contractor's quote requests, optionally filtered by status
func (s *RequestService) List(ctx context.Context, contractorID uuid.UUID, status string) ([]QuoteRequestResponse, error) {
	var filter *quoting.RequestStatus
	if status != "" {
		st := quoting.RequestStatus(status)
		if !st.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown request status")
		}
		filter = &st
	}

	requests, err := s.requestRepo.FindAll(ctx, contractorID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]QuoteRequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToQuoteRequestResponse(&requests[i])
	}
	return responses, nil
}

// SetStatus moves a request through its review lifecycle
func (s *RequestService) SetStatus(ctx context.Context, contractorID, requestID uuid.UUID, status string) (*QuoteRequestResponse, error) {
	target := quoting.RequestStatus(status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown request status")
	}

	request, err := s.requestRepo.FindByID(ctx, contractorID, requestID)
	if err != nil {
		return nil, err
	}
	if err := request.SetStatus(target); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	resp := ToQuoteRequestResponse(request)
	return &resp, nil
}

// Archive moves a request out of the active list
func (s *RequestService) Archive(ctx context.Context, contractorID, requestID uuid.UUID) (*QuoteRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, contractorID, requestID)
	if err != nil {
		return nil, err
	}
	if err := request.Archive(); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	resp := ToQuoteRequestResponse(request)
	return &resp, nil
}

// Delete removes a quote request
func (s *RequestService) Delete(ctx context.Context, contractorID, requestID uuid.UUID) error {
	return s.requestRepo.Delete(ctx, contractorID, requestID)
}
