package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"trustly/internal/models/request_models"
	"trustly/internal/repositories"
	"trustly/internal/services"
	"trustly/pkg/utils"
)

// ModerationController covers testimonial moderation and the business-wide media manager.
type ModerationController struct {
	moderationService services.ModerationServiceInterface
}

func NewModerationController(moderationService services.ModerationServiceInterface) *ModerationController {
	return &ModerationController{moderationService: moderationService}
}

// ListTestimonials godoc
// @Summary List testimonials
// @Tags Moderation
// @Produce json
// @Param campaign_id query string false "Campaign ID"
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /testimonials [get]
func (m *ModerationController) ListTestimonials(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var query request_models.ListTestimonialsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	testimonials, err := m.moderationService.ListTestimonials(c.Request.Context(), userID, query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, testimonials, "Testimonials fetched successfully")
}

// UpdateTestimonialStatus godoc
// @Summary Moderate a testimonial
// @Tags Moderation
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Param request body request_models.UpdateStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /testimonials/{id}/status [patch]
func (m *ModerationController) UpdateTestimonialStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	testimonialID, ok := uuidParam(c, "id", "testimonial ID")
	if !ok {
		return
	}

	var req request_models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Status is required")
		return
	}

	testimonial, err := m.moderationService.UpdateTestimonialStatus(c.Request.Context(), userID, testimonialID, req.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, testimonial, fmt.Sprintf("Testimonial %s", testimonial.Status))
}

// ListTestimonialMedia godoc
// @Summary Photos and videos of one testimonial
// @Tags Moderation
// @Produce json
// @Param id path string true "Testimonial ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /testimonials/{id}/media [get]
func (m *ModerationController) ListTestimonialMedia(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	testimonialID, ok := uuidParam(c, "id", "testimonial ID")
	if !ok {
		return
	}

	media, err := m.moderationService.ListTestimonialMedia(c.Request.Context(), userID, testimonialID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, media, "Media fetched successfully")
}

// AddTestimonialMedia godoc
// @Summary Attach photos or videos to a testimonial
// @Tags Moderation
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Testimonial ID"
// @Param photos formData file false "Photos"
// @Param videos formData file false "Videos"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /testimonials/{id}/media [post]
func (m *ModerationController) AddTestimonialMedia(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	testimonialID, ok := uuidParam(c, "id", "testimonial ID")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondMultipartError(c, err)
		return
	}

	media, err := m.moderationService.AddTestimonialMedia(c.Request.Context(), userID, testimonialID,
		request_models.FromFileHeaders(filesOf(form, "photos")),
		request_models.FromFileHeaders(filesOf(form, "videos")))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, media, "Media uploaded")
}

// ListMedia godoc
// @Summary Media manager
// @Description Every photo and video of the caller's business
// @Tags Media
// @Produce json
// @Param kind query string false "photo or video"
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /media [get]
func (m *ModerationController) ListMedia(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var query request_models.ListMediaQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Kind must be photo or video")
		return
	}

	media, err := m.moderationService.ListMedia(c.Request.Context(), userID, query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, media, "Media fetched successfully")
}

// UpdatePhotoStatus godoc
// @Summary Moderate a photo
// @Tags Media
// @Accept json
// @Produce json
// @Param id path string true "Photo ID"
// @Param request body request_models.UpdateStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /media/photos/{id}/status [patch]
func (m *ModerationController) UpdatePhotoStatus(c *gin.Context) {
	m.updateMediaStatus(c, repositories.MediaPhoto)
}

// UpdateVideoStatus godoc
// @Summary Moderate a video
// @Tags Media
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param request body request_models.UpdateStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /media/videos/{id}/status [patch]
func (m *ModerationController) UpdateVideoStatus(c *gin.Context) {
	m.updateMediaStatus(c, repositories.MediaVideo)
}

func (m *ModerationController) updateMediaStatus(c *gin.Context, kind repositories.MediaKind) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mediaID, ok := uuidParam(c, "id", string(kind)+" ID")
	if !ok {
		return
	}

	var req request_models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Status is required")
		return
	}

	media, err := m.moderationService.UpdateMediaStatus(c.Request.Context(), userID, kind, mediaID, req.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, media, fmt.Sprintf("Media %s", media.Status))
}

// DeletePhoto godoc
// @Summary Delete a photo
// @Tags Media
// @Param id path string true "Photo ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /media/photos/{id} [delete]
func (m *ModerationController) DeletePhoto(c *gin.Context) {
	m.deleteMedia(c, repositories.MediaPhoto)
}

// DeleteVideo godoc
// @Summary Delete a video
// @Tags Media
// @Param id path string true "Video ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /media/videos/{id} [delete]
func (m *ModerationController) DeleteVideo(c *gin.Context) {
	m.deleteMedia(c, repositories.MediaVideo)
}

func (m *ModerationController) deleteMedia(c *gin.Context, kind repositories.MediaKind) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mediaID, ok := uuidParam(c, "id", string(kind)+" ID")
	if !ok {
		return
	}

	if err := m.moderationService.DeleteMedia(c.Request.Context(), userID, kind, mediaID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Media deleted successfully")
}

// DownloadPhoto godoc
// @Summary Download a photo
// @Tags Media
// @Produce octet-stream
// @Param id path string true "Photo ID"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /media/photos/{id}/download [get]
func (m *ModerationController) DownloadPhoto(c *gin.Context) {
	m.download(c, repositories.MediaPhoto)
}

// DownloadVideo godoc
// @Summary Download a video
// @Tags Media
// @Produce octet-stream
// @Param id path string true "Video ID"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /media/videos/{id}/download [get]
func (m *ModerationController) DownloadVideo(c *gin.Context) {
	m.download(c, repositories.MediaVideo)
}

func (m *ModerationController) download(c *gin.Context, kind repositories.MediaKind) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mediaID, ok := uuidParam(c, "id", string(kind)+" ID")
	if !ok {
		return
	}

	file, err := m.moderationService.OpenMedia(c.Request.Context(), userID, kind, mediaID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	defer file.Body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Content-Type", file.ContentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file.Body); err != nil {
		utils.LoggerFrom(c).Warn("media download interrupted")
	}
}
