package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/internal/services"
	"trustly/pkg/utils"
)

type CampaignController struct {
	campaignService services.CampaignServiceInterface
}

func NewCampaignController(campaignService services.CampaignServiceInterface) *CampaignController {
	return &CampaignController{campaignService: campaignService}
}

// ListCampaigns godoc
// @Summary List campaigns
// @Description Campaigns of the caller's business, newest first
// @Tags Campaigns
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /campaigns [get]
func (cc *CampaignController) ListCampaigns(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	campaigns, err := cc.campaignService.ListCampaigns(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, campaigns, "Campaigns fetched successfully")
}

// CreateCampaign godoc
// @Summary Create a campaign
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param request body request_models.CampaignRequest true "Campaign"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /campaigns [post]
func (cc *CampaignController) CreateCampaign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request_models.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Campaign name is required")
		return
	}

	campaign, err := cc.campaignService.CreateCampaign(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, campaign, "Campaign created successfully")
}

// GetCampaign godoc
// @Summary Get a campaign
// @Tags Campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /campaigns/{id} [get]
func (cc *CampaignController) GetCampaign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	campaignID, ok := uuidParam(c, "id", "campaign ID")
	if !ok {
		return
	}

	campaign, err := cc.campaignService.GetCampaign(c.Request.Context(), userID, campaignID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, campaign, "Campaign fetched successfully")
}

// UpdateCampaign godoc
// @Summary Update a campaign
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param request body request_models.CampaignRequest true "Campaign"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /campaigns/{id} [put]
func (cc *CampaignController) UpdateCampaign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	campaignID, ok := uuidParam(c, "id", "campaign ID")
	if !ok {
		return
	}

	var req request_models.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Campaign name is required")
		return
	}

	campaign, err := cc.campaignService.UpdateCampaign(c.Request.Context(), userID, campaignID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, campaign, "Campaign updated successfully")
}

// DeleteCampaign godoc
// @Summary Delete a campaign
// @Description Testimonials collected by the campaign are kept without a campaign
// @Tags Campaigns
// @Param id path string true "Campaign ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /campaigns/{id} [delete]
func (cc *CampaignController) DeleteCampaign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	campaignID, ok := uuidParam(c, "id", "campaign ID")
	if !ok {
		return
	}

	if err := cc.campaignService.DeleteCampaign(c.Request.Context(), userID, campaignID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Campaign deleted successfully")
}

// UploadWelcomeVideo godoc
// @Summary Upload a campaign welcome video
// @Tags Campaigns
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Campaign ID"
// @Param file formData file true "Video file"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /campaigns/{id}/welcome-video [post]
func (cc *CampaignController) UploadWelcomeVideo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	campaignID, ok := uuidParam(c, "id", "campaign ID")
	if !ok {
		return
	}
	file, ok := formFile(c, "file")
	if !ok {
		return
	}

	campaign, err := cc.campaignService.UploadWelcomeVideo(c.Request.Context(), userID, campaignID, file)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, campaign, "Welcome video uploaded successfully")
}

// GetFormConfig godoc
// @Summary Get the form builder configuration
// @Tags Form Builder
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /campaigns/{id}/form-config [get]
func (cc *CampaignController) GetFormConfig(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	campaignID, ok := uuidParam(c, "id", "campaign ID")
	if !ok {
		return
	}

	cfg, err := cc.campaignService.GetFormConfig(c.Request.Context(), userID, campaignID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, cfg, "Form configuration fetched successfully")
}

// SaveFormConfig godoc
// @Summary Save the form builder configuration
// @Tags Form Builder
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param request body db_models.FormConfig true "Form configuration"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /campaigns/{id}/form-config [put]
func (cc *CampaignController) SaveFormConfig(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	campaignID, ok := uuidParam(c, "id", "campaign ID")
	if !ok {
		return
	}

	var cfg db_models.FormConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid form configuration")
		return
	}

	saved, err := cc.campaignService.SaveFormConfig(c.Request.Context(), userID, campaignID, cfg)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, saved, "Form saved successfully")
}

// GetCampaignDashboard godoc
// @Summary Campaign dashboard
// @Description Campaign, its testimonials and summary counts, looked up by slug
// @Tags Campaigns
// @Produce json
// @Param slug path string true "Campaign slug"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /campaigns/by-slug/{slug} [get]
func (cc *CampaignController) GetCampaignDashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	dashboard, err := cc.campaignService.GetCampaignDashboard(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, dashboard, "Campaign fetched successfully")
}
