package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brickquote/backend/internal/application/export"
	appinvoicing "github.com/brickquote/backend/internal/application/invoicing"
)

// InvoiceHandler handles the contractor's invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appinvoicing.InvoiceService
	pdfService     *export.PDFService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *appinvoicing.InvoiceService, pdfService *export.PDFService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, pdfService: pdfService}
}

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appinvoicing.UpsertInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.invoiceService.Create(c.Request.Context(), contractorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreateFromQuote handles POST /api/v1/quotes/:id/invoice
func (h *InvoiceHandler) CreateFromQuote(c *gin.Context) {
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
	resp, err := h.invoiceService.CreateFromQuote(c.Request.Context(), contractorID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp, err := h.invoiceService.List(c.Request.Context(), contractorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	resp, err := h.invoiceService.GetByID(c.Request.Context(), contractorID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /api/v1/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	var req appinvoicing.UpsertInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.invoiceService.Update(c.Request.Context(), contractorID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Send handles POST /api/v1/invoices/:id/send
func (h *InvoiceHandler) Send(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	resp, err := h.invoiceService.Send(c.Request.Context(), contractorID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SendReminder handles POST /api/v1/invoices/:id/remind
func (h *InvoiceHandler) SendReminder(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	resp, err := h.invoiceService.SendReminder(c.Request.Context(), contractorID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	if err := h.invoiceService.Delete(c.Request.Context(), contractorID, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PDF handles GET /api/v1/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	data, filename, err := h.pdfService.InvoicePDF(c.Request.Context(), contractorID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	servePDF(c, data, filename)
}
