package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brickquote/backend/internal/application/export"
	appquoting "github.com/brickquote/backend/internal/application/quoting"
)

// QuoteHandler handles the contractor's quote endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *appquoting.QuoteService
	pdfService   *export.PDFService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *appquoting.QuoteService, pdfService *export.PDFService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService, pdfService: pdfService}
}

// Create handles POST /api/v1/requests/:id/quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}
	resp, err := h.quoteService.Create(c.Request.Context(), contractorID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListForRequest handles GET /api/v1/requests/:id/quotes
func (h *QuoteHandler) ListForRequest(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}
	resp, err := h.quoteService.ListForRequest(c.Request.Context(), contractorID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /api/v1/quotes
func (h *QuoteHandler) List(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp, err := h.quoteService.List(c.Request.Context(), contractorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /api/v1/quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}
	resp, err := h.quoteService.GetByID(c.Request.Context(), contractorID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /api/v1/quotes/:id
func (h *QuoteHandler) Update(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}
	var req appquoting.UpsertQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.quoteService.Update(c.Request.Context(), contractorID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Send handles POST /api/v1/quotes/:id/send
func (h *QuoteHandler) Send(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}
	resp, err := h.quoteService.Send(c.Request.Context(), contractorID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /api/v1/quotes/:id
func (h *QuoteHandler) Delete(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}
	if err := h.quoteService.Delete(c.Request.Context(), contractorID, quoteID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PDF handles GET /api/v1/quotes/:id/pdf
func (h *QuoteHandler) PDF(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}
	data, filename, err := h.pdfService.QuotePDF(c.Request.Context(), contractorID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	servePDF(c, data, filename)
}

func servePDF(c *gin.Context, data []byte, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
