package quoting

import (
	"strings"

	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RequestStatus represents the status of a client quote request
type RequestStatus string

const (
	RequestStatusNew       RequestStatus = "new"
	RequestStatusReviewing RequestStatus = "reviewing"
	RequestStatusQuoted    RequestStatus = "quoted"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusArchived  RequestStatus = "archived"
)

// IsValid checks if the status is a valid RequestStatus
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusNew, RequestStatusReviewing, RequestStatusQuoted,
		RequestStatusAccepted, RequestStatusRejected, RequestStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of RequestStatus
func (s RequestStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Archiving is allowed from any state; everything else follows the intake
// flow new → reviewing → quoted → accepted/rejected.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	if target == RequestStatusArchived {
		return s != RequestStatusArchived
	}
	switch s {
	case RequestStatusNew:
		return target == RequestStatusReviewing || target == RequestStatusQuoted
	case RequestStatusReviewing:
		return target == RequestStatusQuoted
	case RequestStatusQuoted:
		return target == RequestStatusAccepted || target == RequestStatusRejected
	case RequestStatusAccepted, RequestStatusRejected, RequestStatusArchived:
		return false
	}
	return false
}

// QuoteRequest is a client's renovation request submitted through the
// contractor's public intake form. Created unauthenticated; mutated only
// by the owning contractor (or by quote accept/reject mirroring).
type QuoteRequest struct {
	shared.ContractorAggregateRoot
	ClientName  string
	ClientEmail string
	ClientPhone string
	Address     string
	Description string
	PhotoURLs   []string
	Status      RequestStatus
	Token       string
}

// NewQuoteRequest creates a new client request
func NewQuoteRequest(contractorID uuid.UUID, clientName, clientEmail, clientPhone, address, description string, photoURLs []string) (*QuoteRequest, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 10000 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description is too long")
	}
	if len(photoURLs) > 10 {
		return nil, shared.NewDomainError("INVALID_PHOTOS", "At most 10 photos are allowed")
	}

	return &QuoteRequest{
		ContractorAggregateRoot: shared.NewContractorAggregateRoot(contractorID),
		ClientName:              clientName,
		ClientEmail:             strings.ToLower(strings.TrimSpace(clientEmail)),
		ClientPhone:             strings.TrimSpace(clientPhone),
		Address:                 strings.TrimSpace(address),
		Description:             description,
		PhotoURLs:               photoURLs,
		Status:                  RequestStatusNew,
		Token:                   shared.NewDocumentToken(),
	}, nil
}

// SetStatus transitions the request to the target status
func (r *QuoteRequest) SetStatus(target RequestStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown request status")
	}
	if !r.Status.CanTransitionTo(target) {
		return shared.ErrInvalidState
	}
	r.Status = target
	r.Touch()
	return nil
}

// MarkQuoted records that a quote was sent for this request
func (r *QuoteRequest) MarkQuoted() error {
	if r.Status == RequestStatusQuoted {
		return nil
	}
	return r.SetStatus(RequestStatusQuoted)
}

// Archive moves the request out of the active list
func (r *QuoteRequest) Archive() error {
	return r.SetStatus(RequestStatusArchived)
}
