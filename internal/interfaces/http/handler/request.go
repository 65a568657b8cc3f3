package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appquoting "github.com/brickquote/backend/internal/application/quoting"
)

// RequestHandler handles quote request endpoints, including the public
// client intake
type RequestHandler struct {
	BaseHandler
	requestService *appquoting.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requestService *appquoting.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// Intake handles POST /api/v1/public/contractors/:id/requests. Clients
// submit work requests here without authentication.
func (h *RequestHandler) Intake(c *gin.Context) {
	contractorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contractor ID")
		return
	}
	var req appquoting.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.requestService.Intake(c.Request.Context(), contractorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /api/v1/requests with an optional status filter
func (h *RequestHandler) List(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp, err := h.requestService.List(c.Request.Context(), contractorID, c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /api/v1/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
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
	resp, err := h.requestService.GetByID(c.Request.Context(), contractorID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetStatus handles PUT /api/v1/requests/:id/status
func (h *RequestHandler) SetStatus(c *gin.Context) {
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
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.requestService.SetStatus(c.Request.Context(), contractorID, requestID, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Archive handles POST /api/v1/requests/:id/archive
func (h *RequestHandler) Archive(c *gin.Context) {
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
	resp, err := h.requestService.Archive(c.Request.Context(), contractorID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /api/v1/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
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
	if err := h.requestService.Delete(c.Request.Context(), contractorID, requestID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
