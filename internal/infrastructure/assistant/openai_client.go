package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/domain/quoting"
)

// SummarySentinel marks the start of a structured intake summary in a chat
// reply. Its presence flips the hasSummary flag on the chat response.
const SummarySentinel = "---SUMMARY---"

// ChatMessage is one turn of the intake conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOutput is the assistant's reply to an intake conversation
type ChatOutput struct {
	Message    string `json:"message"`
	HasSummary bool   `json:"hasSummary"`
}

// SuggestedService is one catalogue entry proposed from a business description
type SuggestedService struct {
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Price float64 `json:"price"`
}

// PriceListEntry is one catalogue line handed to the model when drafting
// a quote
type PriceListEntry struct {
	Name  string
	Unit  string
	Price float64
}

// QuoteDraftItem is one proposed quote line. Custom items come from outside
// the price list and carry no price; the contractor fills it in.
type QuoteDraftItem struct {
	Name      string
	Quantity  float64
	Unit      string
	UnitPrice float64
	Reason    string
	Custom    bool
}

// QuoteDraft is the model's proposed quote for a work description
type QuoteDraft struct {
	Items []QuoteDraftItem
	Notes string
}

// completionAPI is the slice of the OpenAI client the adapter uses.
// Narrowed for test doubles.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient implements the AI-assisted flows against the completions API
type OpenAIClient struct {
	api    completionAPI
	model  string
	logger *zap.Logger
}

// NewOpenAIClient creates an assistant client for the given API key and model
func NewOpenAIClient(apiKey, model string, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		api:    openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// newOpenAIClientWithAPI is used by tests to inject a fake completion API
func newOpenAIClientWithAPI(api completionAPI, model string, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{api: api, model: model, logger: logger}
}

// Chat continues an intake conversation and reports whether the reply
// contains a completed summary.
func (c *OpenAIClient) Chat(ctx context.Context, history []ChatMessage) (*ChatOutput, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: intakeSystemPrompt,
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		c.logger.Error("Chat completion failed", zap.Error(err))
		return nil, fmt.Errorf("assistant: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("assistant: completion returned no choices")
	}

	reply := resp.Choices[0].Message.Content
	return &ChatOutput{
		Message:    reply,
		HasSummary: strings.Contains(reply, SummarySentinel),
	}, nil
}

// SuggestServices proposes a service catalogue from a free-text business
// description. Entries with unknown units, non-positive prices or empty names
// are dropped; an empty result after filtering is an error.
func (c *OpenAIClient) SuggestServices(ctx context.Context, description string) ([]SuggestedService, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestServicesSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Contractor description:\n" + description},
		},
		Temperature: 0.5,
		MaxTokens:   1500,
	})
	if err != nil {
		c.logger.Error("Service suggestion completion failed", zap.Error(err))
		return nil, fmt.Errorf("assistant: suggestion completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("assistant: completion returned no choices")
	}

	services, err := parseSuggestedServices(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Error("Failed to parse suggestion response",
			zap.String("content", resp.Choices[0].Message.Content),
			zap.Error(err))
		return nil, err
	}
	return services, nil
}

// SuggestQuote drafts quote lines from a work description and the
// contractor's price list. Lines referencing a known price-list entry carry
// its unit and price; the rest come back as unpriced custom items.
func (c *OpenAIClient) SuggestQuote(ctx context.Context, description string, priceList []PriceListEntry) (*QuoteDraft, error) {
	var sb strings.Builder
	sb.WriteString("WORK DESCRIPTION:\n")
	sb.WriteString(description)
	sb.WriteString("\n\nPRICE LIST (use the number as service_id):\n")
	for i, entry := range priceList {
		fmt.Fprintf(&sb, "%d. %s - %.2f / %s\n", i+1, entry.Name, entry.Price, entry.Unit)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestQuoteSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		Temperature: 0.4,
		MaxTokens:   2000,
	})
	if err != nil {
		c.logger.Error("Quote draft completion failed", zap.Error(err))
		return nil, fmt.Errorf("assistant: quote draft completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("assistant: completion returned no choices")
	}

	draft, err := parseQuoteDraft(resp.Choices[0].Message.Content, priceList)
	if err != nil {
		c.logger.Error("Failed to parse quote draft response",
			zap.String("content", resp.Choices[0].Message.Content),
			zap.Error(err))
		return nil, err
	}
	return draft, nil
}

// parseQuoteDraft decodes the model's JSON reply and resolves 1-indexed
// service_id references against the price list. Lines with unknown ids or
// non-positive quantities are dropped.
func parseQuoteDraft(content string, priceList []PriceListEntry) (*QuoteDraft, error) {
	cleaned := stripMarkdownFences(content)

	var payload struct {
		Suggestions []struct {
			ServiceID int     `json:"service_id"`
			Quantity  float64 `json:"quantity"`
			Reason    string  `json:"reason"`
		} `json:"suggestions"`
		CustomSuggestions []struct {
			Name     string  `json:"name"`
			Quantity float64 `json:"quantity"`
			Unit     string  `json:"unit"`
			Reason   string  `json:"reason"`
		} `json:"custom_suggestions"`
		Notes string `json:"notes"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("assistant: malformed quote draft payload: %w", err)
	}

	items := make([]QuoteDraftItem, 0, len(payload.Suggestions)+len(payload.CustomSuggestions))
	for _, sg := range payload.Suggestions {
		if sg.ServiceID < 1 || sg.ServiceID > len(priceList) {
			continue
		}
		if sg.Quantity <= 0 {
			continue
		}
		entry := priceList[sg.ServiceID-1]
		items = append(items, QuoteDraftItem{
			Name:      entry.Name,
			Quantity:  sg.Quantity,
			Unit:      entry.Unit,
			UnitPrice: entry.Price,
			Reason:    sg.Reason,
		})
	}
	for _, sg := range payload.CustomSuggestions {
		if strings.TrimSpace(sg.Name) == "" || sg.Quantity <= 0 {
			continue
		}
		items = append(items, QuoteDraftItem{
			Name:     sg.Name,
			Quantity: sg.Quantity,
			Unit:     sg.Unit,
			Reason:   sg.Reason,
			Custom:   true,
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("assistant: no usable lines in quote draft payload")
	}
	return &QuoteDraft{Items: items, Notes: payload.Notes}, nil
}

const maxSuggestedServices = 30

// stripMarkdownFences removes the code fences models occasionally wrap
// JSON replies in despite the prompt.
func stripMarkdownFences(content string) string {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// parseSuggestedServices decodes and filters the model's JSON reply
func parseSuggestedServices(content string) ([]SuggestedService, error) {
	cleaned := stripMarkdownFences(content)

	var payload struct {
		Services []SuggestedService `json:"services"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("assistant: malformed suggestion payload: %w", err)
	}

	filtered := make([]SuggestedService, 0, len(payload.Services))
	for _, s := range payload.Services {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		if !quoting.ServiceUnit(s.Unit).IsValid() {
			continue
		}
		if s.Price <= 0 {
			continue
		}
		filtered = append(filtered, s)
		if len(filtered) == maxSuggestedServices {
			break
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("assistant: no usable services in suggestion payload")
	}
	return filtered, nil
}
