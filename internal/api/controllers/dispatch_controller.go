package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"trustly/internal/models/request_models"
	"trustly/internal/services"
	"trustly/pkg/utils"
)

type DispatchController struct {
	dispatchService services.DispatchServiceInterface
}

func NewDispatchController(dispatchService services.DispatchServiceInterface) *DispatchController {
	return &DispatchController{dispatchService: dispatchService}
}

// Dispatch godoc
// @Summary Send a campaign
// @Description Create a campaign and email each customer a personal feedback link
// @Tags Dispatch
// @Accept json
// @Produce json
// @Param request body request_models.DispatchRequest true "Campaign and customers"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dispatches [post]
func (d *DispatchController) Dispatch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request_models.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := d.dispatchService.Dispatch(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, result, "Campaign sent")
}

// DispatchCSV godoc
// @Summary Send a campaign to a CSV of customers
// @Tags Dispatch
// @Accept multipart/form-data
// @Produce json
// @Param business_id formData string true "Business ID"
// @Param campaign_name formData string true "Campaign name"
// @Param file formData file true "CSV with name,email columns"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dispatches/csv [post]
func (d *DispatchController) DispatchCSV(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	businessID, err := uuid.Parse(c.PostForm("business_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid business ID")
		return
	}
	campaignName := strings.TrimSpace(c.PostForm("campaign_name"))
	if campaignName == "" {
		utils.RespondError(c, http.StatusBadRequest, "Campaign name is required")
		return
	}

	file, ok := formFile(c, "file")
	if !ok {
		return
	}
	rc, err := file.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}
	defer rc.Close()

	result, err := d.dispatchService.DispatchCSV(c.Request.Context(), userID, businessID, campaignName, rc)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, result, "Campaign sent")
}

// PreviewCSV godoc
// @Summary Preview a customer CSV
// @Description Parse the CSV with the import rules and return the customers that would be emailed
// @Tags Dispatch
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV with name,email columns"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dispatches/preview [post]
func (d *DispatchController) PreviewCSV(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	file, ok := formFile(c, "file")
	if !ok {
		return
	}
	rc, err := file.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}
	defer rc.Close()

	customers, err := d.dispatchService.PreviewCSV(rc)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, customers, "CSV parsed successfully")
}
