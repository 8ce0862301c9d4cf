package response_models

import (
	"time"

	"github.com/google/uuid"
	"trustly/internal/models/db_models"
)

type PublicBranding struct {
	BusinessID     uuid.UUID `json:"business_id"`
	BusinessName   string    `json:"business_name"`
	LogoURL        *string   `json:"logo_url"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color,omitempty"`
	ShowBranding   bool      `json:"show_branding"`
}

type PublicCampaign struct {
	ID              uuid.UUID                  `json:"id"`
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
}

type Prefill struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PublicFormResponse is everything the public submission page needs to render.
type PublicFormResponse struct {
	Branding   PublicBranding       `json:"branding"`
	Campaign   *PublicCampaign      `json:"campaign"`
	FormConfig db_models.FormConfig `json:"form_config"`
	Prefill    *Prefill             `json:"prefill,omitempty"`
}

type MediaFailure struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type SubmissionResponse struct {
	TestimonialID  uuid.UUID      `json:"testimonial_id"`
	PhotosStored   int            `json:"photos_stored"`
	VideosStored   int            `json:"videos_stored"`
	MediaFailures  []MediaFailure `json:"media_failures"`
	SuccessTitle   string         `json:"success_title"`
	SuccessMessage string         `json:"success_message"`
}

type WidgetTestimonial struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	PhotoURL  *string   `json:"photo_url"`
	Photos    []string  `json:"photos"`
	Videos    []string  `json:"videos"`
	CreatedAt time.Time `json:"created_at"`
}

type WidgetFeedResponse struct {
	Business     PublicBranding      `json:"business"`
	Testimonials []WidgetTestimonial `json:"testimonials"`
}
