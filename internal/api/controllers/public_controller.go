package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"trustly/internal/models/request_models"
	"trustly/internal/services"
	"trustly/pkg/utils"
)

// PublicController serves the anonymous customer-facing form, submissions and widget feed.
type PublicController struct {
	publicService services.PublicFormServiceInterface
}

func NewPublicController(publicService services.PublicFormServiceInterface) *PublicController {
	return &PublicController{publicService: publicService}
}

// GetFormBySlug godoc
// @Summary Load a campaign form
// @Tags Public
// @Produce json
// @Param slug path string true "Campaign slug"
// @Param t query string false "Recipient token"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /public/forms/{slug} [get]
func (p *PublicController) GetFormBySlug(c *gin.Context) {
	p.resolve(c, services.FormTarget{Slug: c.Param("slug")})
}

// GetBusinessForm godoc
// @Summary Load a business form
// @Description Business-level form used by emailed links without a campaign slug
// @Tags Public
// @Produce json
// @Param businessId path string true "Business ID"
// @Param t query string false "Recipient token"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /public/businesses/{businessId}/form [get]
func (p *PublicController) GetBusinessForm(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("businessId"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrFormNotFound)
		return
	}
	p.resolve(c, services.FormTarget{BusinessID: businessID})
}

func (p *PublicController) resolve(c *gin.Context, target services.FormTarget) {
	form, err := p.publicService.ResolveForm(c.Request.Context(), target, c.Query("t"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, form, "Form loaded")
}

// SubmitBySlug godoc
// @Summary Submit a testimonial to a campaign
// @Tags Public
// @Accept multipart/form-data
// @Produce json
// @Param slug path string true "Campaign slug"
// @Param t query string false "Recipient token"
// @Param name formData string true "Customer name"
// @Param email formData string false "Customer email"
// @Param rating formData int true "Rating 1-5"
// @Param text formData string false "Testimonial text"
// @Param photos formData file false "Photos"
// @Param videos formData file false "Videos"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /public/forms/{slug}/submissions [post]
func (p *PublicController) SubmitBySlug(c *gin.Context) {
	p.submit(c, services.FormTarget{Slug: c.Param("slug")})
}

// SubmitToBusiness godoc
// @Summary Submit a testimonial to a business
// @Tags Public
// @Accept multipart/form-data
// @Produce json
// @Param businessId path string true "Business ID"
// @Param t query string false "Recipient token"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /public/businesses/{businessId}/submissions [post]
func (p *PublicController) SubmitToBusiness(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("businessId"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrFormNotFound)
		return
	}
	p.submit(c, services.FormTarget{BusinessID: businessID})
}

func (p *PublicController) submit(c *gin.Context, target services.FormTarget) {
	form, err := c.MultipartForm()
	if err != nil {
		respondMultipartError(c, err)
		return
	}

	// unparsable ratings fall through as 0 and get the "select a rating" message
	rating, _ := strconv.Atoi(strings.TrimSpace(c.PostForm("rating")))

	input := request_models.SubmissionInput{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Rating:  rating,
		Text:    c.PostForm("text"),
		Answers: c.PostFormMap("answers"),
		Photos:  request_models.FromFileHeaders(filesOf(form, "photos")),
		Videos:  request_models.FromFileHeaders(filesOf(form, "videos")),
		Token:   c.Query("t"),
	}

	result, err := p.publicService.Submit(c.Request.Context(), target, input)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, result, result.SuccessMessage)
}

// filesOf accepts both "photos" and "photos[]" field names.
func filesOf(form *multipart.Form, field string) []*multipart.FileHeader {
	files := append([]*multipart.FileHeader{}, form.File[field]...)
	return append(files, form.File[field+"[]"]...)
}

// WidgetFeed godoc
// @Summary Approved testimonials for the embeddable widget
// @Tags Public
// @Produce json
// @Param businessId path string true "Business ID"
// @Param limit query int false "Max testimonials" default(20)
// @Success 200 {object} utils.APIResponse
// @Router /public/businesses/{businessId}/testimonials [get]
func (p *PublicController) WidgetFeed(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("businessId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid business ID")
		return
	}

	var query request_models.WidgetQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Limit must be between 1 and 100")
		return
	}

	feed, err := p.publicService.WidgetFeed(c.Request.Context(), businessID, query.Limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, feed, "Testimonials fetched successfully")
}
