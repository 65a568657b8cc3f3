package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brickquote/backend/internal/application/export"
	appidentity "github.com/brickquote/backend/internal/application/identity"
	appinvoicing "github.com/brickquote/backend/internal/application/invoicing"
	"github.com/brickquote/backend/internal/application/notification"
	appquoting "github.com/brickquote/backend/internal/application/quoting"
)

// PublicHandler serves the client-facing endpoints reached through
// share tokens. None of these routes require authentication.
type PublicHandler struct {
	BaseHandler
	quoteService   *appquoting.QuoteService
	invoiceService *appinvoicing.InvoiceService
	profileService *appidentity.ProfileService
	pdfService     *export.PDFService
	notifier       *notification.Service
}

// PublicHandlerConfig holds the dependencies for PublicHandler
type PublicHandlerConfig struct {
	QuoteService   *appquoting.QuoteService
	InvoiceService *appinvoicing.InvoiceService
	ProfileService *appidentity.ProfileService
	PDFService     *export.PDFService
	Notifier       *notification.Service
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(cfg PublicHandlerConfig) *PublicHandler {
	return &PublicHandler{
		quoteService:   cfg.QuoteService,
		invoiceService: cfg.InvoiceService,
		profileService: cfg.ProfileService,
		pdfService:     cfg.PDFService,
		notifier:       cfg.Notifier,
	}
}

// GetQuote handles GET /api/v1/public/quotes/:token
func (h *PublicHandler) GetQuote(c *gin.Context) {
	resp, err := h.quoteService.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// TrackQuoteView handles POST /api/v1/public/quotes/:token/view
func (h *PublicHandler) TrackQuoteView(c *gin.Context) {
	if err := h.quoteService.TrackView(c.Request.Context(), c.Param("token")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AcceptQuote handles POST /api/v1/public/quotes/:token/accept
func (h *PublicHandler) AcceptQuote(c *gin.Context) {
	h.decideQuote(c, true)
}

// RejectQuote handles POST /api/v1/public/quotes/:token/reject
func (h *PublicHandler) RejectQuote(c *gin.Context) {
	h.decideQuote(c, false)
}

func (h *PublicHandler) decideQuote(c *gin.Context, accept bool) {
	if err := h.quoteService.Decide(c.Request.Context(), c.Param("token"), accept); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// QuotePDF handles GET /api/v1/public/quotes/:token/pdf
func (h *PublicHandler) QuotePDF(c *gin.Context) {
	data, filename, err := h.pdfService.QuotePDFByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	servePDF(c, data, filename)
}

// GetInvoice handles GET /api/v1/public/invoices/:token
func (h *PublicHandler) GetInvoice(c *gin.Context) {
	resp, err := h.invoiceService.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkInvoicePaid handles POST /api/v1/public/invoices/:token/paid
func (h *PublicHandler) MarkInvoicePaid(c *gin.Context) {
	if err := h.invoiceService.MarkPaidByToken(c.Request.Context(), c.Param("token")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// InvoicePDF handles GET /api/v1/public/invoices/:token/pdf
func (h *PublicHandler) InvoicePDF(c *gin.Context) {
	data, filename, err := h.pdfService.InvoicePDFByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	servePDF(c, data, filename)
}

// Unsubscribe handles POST /api/v1/public/unsubscribe?uid=...&token=...
func (h *PublicHandler) Unsubscribe(c *gin.Context) {
	if err := h.profileService.Unsubscribe(c.Request.Context(), c.Query("uid"), c.Query("token")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "You have been unsubscribed from email notifications"})
}

// Resubscribe handles POST /api/v1/public/resubscribe?uid=...&token=...
func (h *PublicHandler) Resubscribe(c *gin.Context) {
	if err := h.profileService.Resubscribe(c.Request.Context(), c.Query("uid"), c.Query("token")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Email notifications have been re-enabled"})
}

// ContactFormRequest is the payload for the public contact form
type ContactFormRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,max=5000"`
}

// Contact handles POST /api/v1/public/contact
func (h *PublicHandler) Contact(c *gin.Context) {
	var req ContactFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.notifier.ContactForm(c.Request.Context(), req.Name, req.Email, req.Message)
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}
