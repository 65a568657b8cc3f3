package quoting

import (
	"context"

	"github.com/google/uuid"
)

// ServiceRepository defines persistence operations for price-list entries
type ServiceRepository interface {
	Save(ctx context.Context, service *Service) error
	Update(ctx context.Context, service *Service) error
	FindByID(ctx context.Context, contractorID, id uuid.UUID) (*Service, error)
	FindAll(ctx context.Context, contractorID uuid.UUID) ([]Service, error)
	Delete(ctx context.Context, contractorID, id uuid.UUID) error
	DeleteAllForContractor(ctx context.Context, contractorID uuid.UUID) error
}

// QuoteRequestRepository defines persistence operations for client requests
type QuoteRequestRepository interface {
	Save(ctx context.Context, request *QuoteRequest) error
	Update(ctx context.Context, request *QuoteRequest) error
	FindByID(ctx context.Context, contractorID, id uuid.UUID) (*QuoteRequest, error)
	FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*QuoteRequest, error)
	FindAll(ctx context.Context, contractorID uuid.UUID, status *RequestStatus) ([]QuoteRequest, error)
	Delete(ctx context.Context, contractorID, id uuid.UUID) error
	DeleteAllForContractor(ctx context.Context, contractorID uuid.UUID) error
}

// QuoteRepository defines persistence operations for quotes
type QuoteRepository interface {
	Save(ctx context.Context, quote *Quote) error
	Update(ctx context.Context, quote *Quote) error
	FindByID(ctx context.Context, contractorID, id uuid.UUID) (*Quote, error)
	FindByToken(ctx context.Context, token string) (*Quote, error)
	FindAll(ctx context.Context, contractorID uuid.UUID) ([]Quote, error)
	FindByRequestID(ctx context.Context, contractorID, requestID uuid.UUID) ([]Quote, error)
	Delete(ctx context.Context, contractorID, id uuid.UUID) error
	DeleteAllForContractor(ctx context.Context, contractorID uuid.UUID) error

	// UpdateStatusIfSent atomically transitions a sent quote identified by
	// token. The status equality predicate in the UPDATE acts as optimistic
	// concurrency control; it returns false when no row matched.
	UpdateStatusIfSent(ctx context.Context, token string, target QuoteStatus) (bool, error)

	// MarkViewedIfFirst stamps viewed_at on a sent quote only when unset.
	// Returns false when the quote was already viewed or not sent.
	MarkViewedIfFirst(ctx context.Context, token string) (bool, error)
}
