package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"trustly/internal/models/request_models"
	"trustly/internal/services"
	"trustly/pkg/utils"
)

type AnalyticsController struct {
	analyticsService services.AnalyticsServiceInterface
}

func NewAnalyticsController(analyticsService services.AnalyticsServiceInterface) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
	}
}

// GetAnalytics godoc
// @Summary Get analytics report
// @Description Totals, status counts, average rating, rating histogram, trailing 7-day counts, per-campaign counts and conversion rate
// @Tags Analytics
// @Produce json
// @Param days query int false "Lookback window in days (default 30, max 365)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /analytics [get]
func (a *AnalyticsController) GetAnalytics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var query request_models.AnalyticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "days must be between 1 and 365")
		return
	}

	report, err := a.analyticsService.BuildReport(c.Request.Context(), userID, query.Days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "Analytics fetched successfully")
}

// ExportAnalytics godoc
// @Summary Export analytics as CSV
// @Tags Analytics
// @Produce text/csv
// @Param days query int false "Lookback window in days (default 30, max 365)"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /analytics/export [get]
func (a *AnalyticsController) ExportAnalytics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var query request_models.AnalyticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "days must be between 1 and 365")
		return
	}

	export, err := a.analyticsService.ExportCSV(c.Request.Context(), userID, query.Days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", export.Body)
}
