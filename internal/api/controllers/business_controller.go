package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"trustly/internal/models/request_models"
	"trustly/internal/services"
	"trustly/pkg/utils"
)

type BusinessController struct {
	businessService services.BusinessServiceInterface
}

func NewBusinessController(businessService services.BusinessServiceInterface) *BusinessController {
	return &BusinessController{businessService: businessService}
}

// GetBusiness godoc
// @Summary Get business settings
// @Tags Business
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /business [get]
func (b *BusinessController) GetBusiness(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	business, err := b.businessService.GetBusiness(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, business, "Business fetched successfully")
}

// UpdateBusiness godoc
// @Summary Update general settings
// @Tags Business
// @Accept json
// @Produce json
// @Param request body request_models.UpdateBusinessRequest true "Business settings"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /business [put]
func (b *BusinessController) UpdateBusiness(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request_models.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	business, err := b.businessService.UpdateBusiness(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, business, "Settings saved successfully")
}

// UploadLogo godoc
// @Summary Upload the business logo
// @Description Replaces logo_url, or custom_logo_url when target=branding
// @Tags Business
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Logo image"
// @Param target query string false "settings or branding"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /business/logo [post]
func (b *BusinessController) UploadLogo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	target := request_models.LogoTarget(c.DefaultQuery("target", string(request_models.LogoTargetSettings)))
	if target != request_models.LogoTargetSettings && target != request_models.LogoTargetBranding {
		utils.RespondError(c, http.StatusBadRequest, "Invalid logo target")
		return
	}

	file, ok := formFile(c, "file")
	if !ok {
		return
	}

	logo, err := b.businessService.UploadLogo(c.Request.Context(), userID, target, file)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, logo, "Logo uploaded successfully")
}

// UpdateBranding godoc
// @Summary Update branding
// @Tags Business
// @Accept json
// @Produce json
// @Param request body request_models.UpdateBrandingRequest true "Branding"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /business/branding [put]
func (b *BusinessController) UpdateBranding(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request_models.UpdateBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Colors must be hex values such as #14b8a6")
		return
	}

	business, err := b.businessService.UpdateBranding(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, business, "Branding saved successfully")
}

// GetEmailSettings godoc
// @Summary Get email notification settings
// @Tags Business
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /business/email-settings [get]
func (b *BusinessController) GetEmailSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	settings, err := b.businessService.GetEmailSettings(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, settings, "Email settings fetched successfully")
}

// UpdateEmailSettings godoc
// @Summary Update email notification settings
// @Tags Business
// @Accept json
// @Produce json
// @Param request body request_models.UpdateEmailSettingsRequest true "Email settings"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /business/email-settings [put]
func (b *BusinessController) UpdateEmailSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request_models.UpdateEmailSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	settings, err := b.businessService.UpdateEmailSettings(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, settings, "Email settings saved successfully")
}

// SendTestEmail godoc
// @Summary Send a test notification email
// @Tags Business
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /business/email-settings/test [post]
func (b *BusinessController) SendTestEmail(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := b.businessService.SendTestEmail(c.Request.Context(), userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Test email sent")
}
