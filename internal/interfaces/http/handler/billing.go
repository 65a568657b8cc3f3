package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/brickquote/backend/internal/application/billing"
)

// BillingHandler handles the subscription endpoints
type BillingHandler struct {
	BaseHandler
	subscriptionService *appbilling.SubscriptionService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(subscriptionService *appbilling.SubscriptionService) *BillingHandler {
	return &BillingHandler{subscriptionService: subscriptionService}
}

// Status handles GET /api/v1/billing/subscription
func (h *BillingHandler) Status(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp, err := h.subscriptionService.Status(c.Request.Context(), contractorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// StartCheckout handles POST /api/v1/billing/checkout
func (h *BillingHandler) StartCheckout(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appbilling.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.subscriptionService.StartCheckout(c.Request.Context(), contractorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// VerifyCheckout handles POST /api/v1/billing/checkout/verify
func (h *BillingHandler) VerifyCheckout(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.subscriptionService.VerifyCheckout(c.Request.Context(), contractorID, req.SessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Portal handles POST /api/v1/billing/portal
func (h *BillingHandler) Portal(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	url, err := h.subscriptionService.BillingPortalURL(c.Request.Context(), contractorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"url": url})
}

// Cancel handles POST /api/v1/billing/subscription/cancel
func (h *BillingHandler) Cancel(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp, err := h.subscriptionService.Cancel(c.Request.Context(), contractorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Resume handles POST /api/v1/billing/subscription/resume
func (h *BillingHandler) Resume(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp, err := h.subscriptionService.Resume(c.Request.Context(), contractorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SwitchPlan handles POST /api/v1/billing/subscription/switch
func (h *BillingHandler) SwitchPlan(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appbilling.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.subscriptionService.SwitchPlan(c.Request.Context(), contractorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
