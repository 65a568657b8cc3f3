package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appidentity "github.com/brickquote/backend/internal/application/identity"
)

// ProfileHandler handles account settings endpoints
type ProfileHandler struct {
	BaseHandler
	profileService *appidentity.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *appidentity.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Me handles GET /api/v1/profile
func (h *ProfileHandler) Me(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp, err := h.profileService.Get(c.Request.Context(), contractorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /api/v1/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appidentity.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.profileService.Update(c.Request.Context(), contractorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateBankDetails handles PUT /api/v1/profile/bank
func (h *ProfileHandler) UpdateBankDetails(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appidentity.UpdateBankDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.profileService.UpdateBankDetails(c.Request.Context(), contractorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateNotifications handles PUT /api/v1/profile/notifications
func (h *ProfileHandler) UpdateNotifications(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appidentity.NotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.profileService.SetNotificationSettings(c.Request.Context(), contractorID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterPushToken handles POST /api/v1/profile/push-tokens
func (h *ProfileHandler) RegisterPushToken(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appidentity.PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.profileService.RegisterPushToken(c.Request.Context(), contractorID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RemovePushToken handles DELETE /api/v1/profile/push-tokens
func (h *ProfileHandler) RemovePushToken(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req appidentity.RemovePushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.profileService.RemovePushToken(c.Request.Context(), contractorID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Countries handles GET /api/v1/countries
func (h *ProfileHandler) Countries(c *gin.Context) {
	h.Success(c, appidentity.SupportedCountries())
}

// Export handles GET /api/v1/profile/export, serving the snapshot as a
// JSON download
func (h *ProfileHandler) Export(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	export, err := h.profileService.ExportData(c.Request.Context(), contractorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filename := fmt.Sprintf("brickquote-export-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, export)
}

// DeleteAccount handles DELETE /api/v1/profile
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	contractorID, ok := getContractorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if err := h.profileService.DeleteAccount(c.Request.Context(), contractorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
