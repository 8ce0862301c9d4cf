package request_models

import "trustly/internal/models/db_models"

// CampaignRequest creates or updates a campaign. Nil flags keep their current (or default) value.
type CampaignRequest struct {
	Name            string                     `json:"name" binding:"required,max=200"`
	Description     *string                    `json:"description" binding:"omitempty,max=2000"`
	VideoAutoplay   *bool                      `json:"video_autoplay"`
	CustomQuestions []db_models.CustomQuestion `json:"custom_questions" binding:"omitempty,max=20"`
	AllowVideo      *bool                      `json:"allow_video"`
	AllowPhoto      *bool                      `json:"allow_photo"`
	AllowText       *bool                      `json:"allow_text"`
	AllowRating     *bool                      `json:"allow_rating"`
}
