package assistant

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/assistant"
)

const (
	maxChatMessages      = 40
	maxChatMessageLength = 4000
	minDescriptionLength = 10
)

// AssistantClient is the language-model adapter used by the service
type AssistantClient interface {
	Chat(ctx context.Context, history []assistant.ChatMessage) (*assistant.ChatOutput, error)
	SuggestServices(ctx context.Context, description string) ([]assistant.SuggestedService, error)
	SuggestQuote(ctx context.Context, description string, priceList []assistant.PriceListEntry) (*assistant.QuoteDraft, error)
}

// AssistantService validates assistant requests and shields callers from
// upstream failures
type AssistantService struct {
	client      AssistantClient
	serviceRepo quoting.ServiceRepository
	logger      *zap.Logger
}

// NewAssistantService creates a new AssistantService
func NewAssistantService(client AssistantClient, serviceRepo quoting.ServiceRepository, logger *zap.Logger) *AssistantService {
	return &AssistantService{client: client, serviceRepo: serviceRepo, logger: logger}
}

// ChatRequest carries the running intake conversation
type ChatRequest struct {
	Messages []ChatMessageInput `json:"messages" binding:"required,min=1,max=40,dive"`
}

// ChatMessageInput is one turn of the intake conversation
type ChatMessageInput struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required,max=4000"`
}

// ChatResponse is the assistant's next turn
type ChatResponse struct {
	Message    string `json:"message"`
	HasSummary bool   `json:"has_summary"`
}

// SuggestServicesRequest asks for catalog entries matching a trade description
type SuggestServicesRequest struct {
	Description string `json:"description" binding:"required,min=10,max=2000"`
}

// SuggestedServiceResponse is one proposed catalog entry
type SuggestedServiceResponse struct {
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Price float64 `json:"price"`
}

// SuggestQuoteRequest asks for a drafted quote from a work description
type SuggestQuoteRequest struct {
	Description string `json:"description" binding:"required,min=10,max=4000"`
}

// QuoteDraftItemResponse is one proposed quote line. Custom lines are not
// on the contractor's price list and carry no price.
type QuoteDraftItemResponse struct {
	ServiceName string  `json:"service_name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
	Reason      string  `json:"reason"`
	Custom      bool    `json:"is_custom"`
}

// SuggestQuoteResponse is the drafted quote
type SuggestQuoteResponse struct {
	Items []QuoteDraftItemResponse `json:"items"`
	Notes string                   `json:"notes,omitempty"`
}

// Chat continues an intake conversation
func (s *AssistantService) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if len(req.Messages) == 0 || len(req.Messages) > maxChatMessages {
		return nil, shared.NewDomainError("INVALID_INPUT", "Conversation length is out of range")
	}
	history := make([]assistant.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		content := strings.TrimSpace(m.Content)
		if content == "" || len(m.Content) > maxChatMessageLength {
			return nil, shared.NewDomainError("INVALID_INPUT", "Message content is empty or too long")
		}
		history[i] = assistant.ChatMessage{Role: m.Role, Content: content}
	}

	out, err := s.client.Chat(ctx, history)
	if err != nil {
		s.logger.Error("Assistant chat failed", zap.Error(err))
		return nil, shared.ErrUpstream
	}
	return &ChatResponse{Message: out.Message, HasSummary: out.HasSummary}, nil
}

// SuggestServices proposes catalog entries for the contractor's trade
func (s *AssistantService) SuggestServices(ctx context.Context, req SuggestServicesRequest) ([]SuggestedServiceResponse, error) {
	description := strings.TrimSpace(req.Description)
	if len(description) < minDescriptionLength {
		return nil, shared.NewDomainError("INVALID_INPUT", "Description is too short")
	}

	suggestions, err := s.client.SuggestServices(ctx, description)
	if err != nil {
		s.logger.Error("Service suggestion failed", zap.Error(err))
		return nil, shared.ErrUpstream
	}

	responses := make([]SuggestedServiceResponse, len(suggestions))
	for i, sv := range suggestions {
		responses[i] = SuggestedServiceResponse{Name: sv.Name, Unit: sv.Unit, Price: sv.Price}
	}
	return responses, nil
}

// SuggestQuote drafts quote lines from a work description using the
// contractor's price list. The contractor reviews the draft before any
// quote is created from it.
func (s *AssistantService) SuggestQuote(ctx context.Context, contractorID uuid.UUID, req SuggestQuoteRequest) (*SuggestQuoteResponse, error) {
	description := strings.TrimSpace(req.Description)
	if len(description) < minDescriptionLength {
		return nil, shared.NewDomainError("INVALID_INPUT", "Description is too short")
	}

	services, err := s.serviceRepo.FindAll(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, shared.NewDomainError("EMPTY_PRICE_LIST", "Add services to your price list before drafting quotes")
	}

	priceList := make([]assistant.PriceListEntry, len(services))
	for i := range services {
		priceList[i] = assistant.PriceListEntry{
			Name:  services[i].Name,
			Unit:  string(services[i].Unit),
			Price: services[i].UnitPrice.InexactFloat64(),
		}
	}

	draft, err := s.client.SuggestQuote(ctx, description, priceList)
	if err != nil {
		s.logger.Error("Quote draft failed", zap.Error(err))
		return nil, shared.ErrUpstream
	}

	items := make([]QuoteDraftItemResponse, len(draft.Items))
	for i, item := range draft.Items {
		items[i] = QuoteDraftItemResponse{
			ServiceName: item.Name,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Total:       item.Quantity * item.UnitPrice,
			Reason:      item.Reason,
			Custom:      item.Custom,
		}
	}
	return &SuggestQuoteResponse{Items: items, Notes: draft.Notes}, nil
}
