package response_models

import (
	"time"

	"github.com/google/uuid"
	"trustly/internal/models/db_models"
)

type CampaignResponse struct {
	ID              uuid.UUID                  `json:"id"`
	BusinessID      uuid.UUID                  `json:"business_id"`
	Name            string                     `json:"name"`
	Description     *string                    `json:"description"`
	WelcomeVideoURL *string                    `json:"welcome_video_url"`
	VideoAutoplay   bool                       `json:"video_autoplay"`
	CustomQuestions []db_models.CustomQuestion `json:"custom_questions"`
	AllowVideo      bool                       `json:"allow_video"`
	AllowPhoto      bool                       `json:"allow_photo"`
	AllowText       bool                       `json:"allow_text"`
	AllowRating     bool                       `json:"allow_rating"`
	UniqueSlug      string                     `json:"unique_slug"`
	Link            string                     `json:"link"`
	TotalSent       int                        `json:"total_sent"`
	TotalSubmitted  int                        `json:"total_submitted"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

type CampaignSummary struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	Approved      int     `json:"approved"`
	Rejected      int     `json:"rejected"`
	AverageRating float64 `json:"average_rating"`
}

// CampaignDashboardResponse backs the per-campaign moderation page.
type CampaignDashboardResponse struct {
	Campaign     CampaignResponse      `json:"campaign"`
	Summary      CampaignSummary       `json:"summary"`
	Testimonials []TestimonialResponse `json:"testimonials"`
}

// CampaignLink is the shareable public form URL of a campaign.
func CampaignLink(appBaseURL, slug string) string {
	return appBaseURL + "/submit/" + slug
}

func ToCampaignResponse(c *db_models.Campaign, appBaseURL string) CampaignResponse {
	questions := []db_models.CustomQuestion(c.CustomQuestions)
	if questions == nil {
		questions = []db_models.CustomQuestion{}
	}
	return CampaignResponse{
		ID:              c.ID,
		BusinessID:      c.BusinessID,
		Name:            c.Name,
		Description:     c.Description,
		WelcomeVideoURL: c.WelcomeVideoURL,
		VideoAutoplay:   c.VideoAutoplay,
		CustomQuestions: questions,
		AllowVideo:      c.AllowVideo,
		AllowPhoto:      c.AllowPhoto,
		AllowText:       c.AllowText,
		AllowRating:     c.AllowRating,
		UniqueSlug:      c.UniqueSlug,
		Link:            CampaignLink(appBaseURL, c.UniqueSlug),
		TotalSent:       c.TotalSent,
		TotalSubmitted:  c.TotalSubmitted,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
