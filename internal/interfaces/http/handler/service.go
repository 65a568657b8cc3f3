package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appquoting "github.com/brickquote/backend/internal/application/quoting"
)

// ServiceHandler handles the contractor's service catalog endpoints
type ServiceHandler struct {
	BaseHandler
	catalogService *appquoting.CatalogService
}

// NewServiceHandler creates a new ServiceHandler
func NewServiceHandler(catalogService *appquoting.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalogService: catalogService}
}

// Create handles POST /api/v1/services
func (h *ServiceHandler) Create(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appquoting.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.catalogService.Create(c.Request.Context(), contractorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreateBatch handles POST /api/v1/services/batch, used when the contractor
// accepts assistant suggestions
func (h *ServiceHandler) CreateBatch(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req struct {
		Services []appquoting.CreateServiceRequest `json:"services" binding:"required,min=1,max=30,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.catalogService.CreateBatch(c.Request.Context(), contractorID, req.Services)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /api/v1/services
func (h *ServiceHandler) List(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp, err := h.catalogService.List(c.Request.Context(), contractorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /api/v1/services/:id
func (h *ServiceHandler) Get(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID")
		return
	}
	resp, err := h.catalogService.GetByID(c.Request.Context(), contractorID, serviceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /api/v1/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID")
		return
	}
	var req appquoting.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.catalogService.Update(c.Request.Context(), contractorID, serviceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /api/v1/services/:id
func (h *ServiceHandler) Delete(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID")
		return
	}
	if err := h.catalogService.Delete(c.Request.Context(), contractorID, serviceID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
