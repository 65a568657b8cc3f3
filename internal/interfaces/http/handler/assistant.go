package handler

import (
	"github.com/gin-gonic/gin"

	appassistant "github.com/brickquote/backend/internal/application/assistant"
)

// AssistantHandler handles the AI assistant endpoints
type AssistantHandler struct {
	BaseHandler
	assistantService *appassistant.AssistantService
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(assistantService *appassistant.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// Chat handles POST /api/v1/assistant/chat
func (h *AssistantHandler) Chat(c *gin.Context) {
	if _, ok := getContractorID(c); !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appassistant.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.assistantService.Chat(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SuggestServices handles POST /api/v1/assistant/suggest-services
func (h *AssistantHandler) SuggestServices(c *gin.Context) {
	if _, ok := getContractorID(c); !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appassistant.SuggestServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.assistantService.SuggestServices(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SuggestQuote handles POST /api/v1/assistant/suggest-quote
func (h *AssistantHandler) SuggestQuote(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appassistant.SuggestQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.assistantService.SuggestQuote(c.Request.Context(), contractorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
