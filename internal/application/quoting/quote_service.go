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

// QuoteService handles the quote lifecycle including the public
// token-authenticated client flows.
type QuoteService struct {
	quoteRepo   quoting.QuoteRepository
	requestRepo quoting.QuoteRequestRepository
	profileRepo identity.ProfileRepository
	notifier    *notification.Service
	logger      *zap.Logger
}

// QuoteServiceConfig contains configuration for QuoteService
type QuoteServiceConfig struct {
	QuoteRepo   quoting.QuoteRepository
	RequestRepo quoting.QuoteRequestRepository
	ProfileRepo identity.ProfileRepository
	Notifier    *notification.Service
	Logger      *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	return &QuoteService{
		quoteRepo:   cfg.QuoteRepo,
		requestRepo: cfg.RequestRepo,
		profileRepo: cfg.ProfileRepo,
		notifier:    cfg.Notifier,
		logger:      cfg.Logger,
	}
}

// Create starts a draft quote for a request. A request under review moves
// to reviewing when it was still new.
func (s *QuoteService) Create(ctx context.Context, contractorID, requestID uuid.UUID) (*QuoteResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, contractorID, requestID)
	if err != nil {
		return nil, err
	}

	quote, err := quoting.NewQuote(contractorID, request.ID)
	if err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	if request.Status == quoting.RequestStatusNew {
		if err := request.SetStatus(quoting.RequestStatusReviewing); err == nil {
			if err := s.requestRepo.Update(ctx, request); err != nil {
				s.logger.Warn("Failed to move request to reviewing",
					zap.String("request_id", request.ID.String()),
					zap.Error(err))
			}
		}
	}

	resp := ToQuoteResponse(quote)
	return &resp, nil
}

func buildItems(inputs []QuoteItemInput) ([]quoting.QuoteItem, error) {
	items := make([]quoting.QuoteItem, len(inputs))
	for i, in := range inputs {
		item, err := quoting.NewQuoteItem(in.ServiceName, in.Quantity, quoting.ServiceUnit(in.Unit), in.UnitPrice)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func buildMaterials(inputs []QuoteMaterialInput) ([]quoting.QuoteMaterial, error) {
	materials := make([]quoting.QuoteMaterial, len(inputs))
	for i, in := range inputs {
		m, err := quoting.NewQuoteMaterial(in.Name, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		materials[i] = m
	}
	return materials, nil
}

// Update replaces the content of a draft quote and recomputes totals
func (s *QuoteService) Update(ctx context.Context, contractorID, quoteID uuid.UUID, req UpsertQuoteRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, contractorID, quoteID)
	if err != nil {
		return nil, err
	}

	items, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}
	materials, err := buildMaterials(req.Materials)
	if err != nil {
		return nil, err
	}

	if err := quote.SetItems(items); err != nil {
		return nil, err
	}
	if err := quote.SetMaterials(materials); err != nil {
		return nil, err
	}
	if err := quote.SetPercentages(req.DiscountPercent, req.TaxPercent); err != nil {
		return nil, err
	}
	if err := quote.SetNotes(req.Notes); err != nil {
		return nil, err
	}
	if err := quote.SetValidUntil(req.ValidUntil); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}

	resp := ToQuoteResponse(quote)
	return &resp, nil
}

// GetByID retrieves one quote
func (s *QuoteService) GetByID(ctx context.Context, contractorID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, contractorID, quoteID)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteResponse(quote)
	return &resp, nil
}

// List retrieves a contractor's quotes, newest first
func (s *QuoteService) List(ctx context.Context, contractorID uuid.UUID) ([]QuoteResponse, error) {
	quotes, err := s.quoteRepo.FindAll(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	responses := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToQuoteResponse(&quotes[i])
	}
	return responses, nil
}

// ListForRequest retrieves the quotes drafted for one request
func (s *QuoteService) ListForRequest(ctx context.Context, contractorID, requestID uuid.UUID) ([]QuoteResponse, error) {
	quotes, err := s.quoteRepo.FindByRequestID(ctx, contractorID, requestID)
	if err != nil {
		return nil, err
	}
	responses := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToQuoteResponse(&quotes[i])
	}
	return responses, nil
}

// Delete removes a quote
func (s *QuoteService) Delete(ctx context.Context, contractorID, quoteID uuid.UUID) error {
	return s.quoteRepo.Delete(ctx, contractorID, quoteID)
}

// Send transitions a draft quote to sent, emails it to the client and marks
// the request as quoted. The email is best-effort.
func (s *QuoteService) Send(ctx context.Context, contractorID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, contractorID, quoteID)
	if err != nil {
		return nil, err
	}
	request, err := s.requestRepo.FindByID(ctx, contractorID, quote.RequestID)
	if err != nil {
		return nil, err
	}
	if request.ClientEmail == "" {
		return nil, shared.NewDomainError("MISSING_CLIENT_EMAIL", "The request has no client email to send to")
	}
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	if err := quote.Send(); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}

	if err := request.MarkQuoted(); err == nil {
		if err := s.requestRepo.Update(ctx, request); err != nil {
			s.logger.Warn("Failed to mark request as quoted",
				zap.String("request_id", request.ID.String()),
				zap.Error(err))
		}
	}

	s.notifier.QuoteSent(ctx, profile, request, quote)

	resp := ToQuoteResponse(quote)
	return &resp, nil
}

// GetByToken retrieves the client-facing view of a quote. Draft quotes are
// invisible to clients.
func (s *QuoteService) GetByToken(ctx context.Context, token string) (*PublicQuoteResponse, error) {
	quote, err := s.quoteRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if quote.Status == quoting.QuoteStatusDraft {
		return nil, shared.ErrNotFound
	}

	request, err := s.requestRepo.FindByIDUnscoped(ctx, quote.RequestID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.FindByID(ctx, quote.ContractorID)
	if err != nil {
		return nil, err
	}
	country := profile.Country()

	return &PublicQuoteResponse{
		ContractorName:  profile.DisplayName(),
		ContractorPhone: profile.Phone,
		ClientName:      request.ClientName,
		Items:           quote.Items,
		Materials:       quote.Materials,
		DiscountPercent: quote.DiscountPercent,
		TaxPercent:      quote.TaxPercent,
		TaxLabel:        country.TaxLabel,
		Subtotal:        quote.Subtotal,
		TotalNet:        quote.TotalNet,
		TotalTax:        quote.TotalTax,
		TotalGross:      quote.TotalGross,
		CurrencySymbol:  country.CurrencySymbol,
		Notes:           quote.Notes,
		ValidUntil:      quote.ValidUntil,
		Status:          quote.Status.String(),
		CreatedAt:       quote.CreatedAt,
	}, nil
}

// TrackView stamps the first client view of a sent quote. Repeat views and
// views of non-sent quotes are no-ops.
func (s *QuoteService) TrackView(ctx context.Context, token string) error {
	_, err := s.quoteRepo.MarkViewedIfFirst(ctx, token)
	return err
}

// Decide records the client's accept or reject. The status guard runs as a
// conditional update so two concurrent decisions cannot both win; the loser
// gets an invalid-state error.
func (s *QuoteService) Decide(ctx context.Context, token string, accept bool) error {
	target := quoting.QuoteStatusRejected
	if accept {
		target = quoting.QuoteStatusAccepted
	}

	won, err := s.quoteRepo.UpdateStatusIfSent(ctx, token, target)
	if err != nil {
		return err
	}
	if !won {
		// Distinguish a missing quote from a decided one
		if _, err := s.quoteRepo.FindByToken(ctx, token); err != nil {
			return err
		}
		return shared.ErrInvalidState
	}

	quote, err := s.quoteRepo.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	request, err := s.requestRepo.FindByIDUnscoped(ctx, quote.RequestID)
	if err != nil {
		s.logger.Warn("Quote decided but request lookup failed",
			zap.String("quote_id", quote.ID.String()),
			zap.Error(err))
		return nil
	}

	requestStatus := quoting.RequestStatusRejected
	if accept {
		requestStatus = quoting.RequestStatusAccepted
	}
	if err := request.SetStatus(requestStatus); err == nil {
		if err := s.requestRepo.Update(ctx, request); err != nil {
			s.logger.Warn("Failed to update request after quote decision",
				zap.String("request_id", request.ID.String()),
				zap.Error(err))
		}
	}

	profile, err := s.profileRepo.FindByID(ctx, quote.ContractorID)
	if err != nil {
		s.logger.Warn("Quote decided but contractor lookup failed",
			zap.String("quote_id", quote.ID.String()),
			zap.Error(err))
		return nil
	}
	s.notifier.QuoteDecision(ctx, profile, request, quote, accept)
	return nil
}
