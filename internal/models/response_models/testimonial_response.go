package response_models

import (
	"time"

	"github.com/google/uuid"
	"trustly/internal/models/db_models"
)

type MediaResponse struct {
	ID              uuid.UUID  `json:"id"`
	Kind            string     `json:"kind"`
	TestimonialID   uuid.UUID  `json:"testimonial_id"`
	TestimonialName string     `json:"testimonial_name,omitempty"`
	URL             string     `json:"url"`
	Status          string     `json:"status"`
	UploadedAt      time.Time  `json:"uploaded_at"`
	ApprovedAt      *time.Time `json:"approved_at"`
}

type TestimonialResponse struct {
	ID            uuid.UUID         `json:"id"`
	BusinessID    uuid.UUID         `json:"business_id"`
	CampaignID    *uuid.UUID        `json:"campaign_id"`
	CampaignName  string            `json:"campaign_name"`
	Name          string            `json:"name"`
	Email         *string           `json:"email"`
	Rating        int               `json:"rating"`
	Text          string            `json:"text"`
	Status        string            `json:"status"`
	PhotoURL      *string           `json:"photo_url"`
	CustomAnswers map[string]string `json:"custom_answers"`
	PhotoCount    int               `json:"photo_count"`
	VideoCount    int               `json:"video_count"`
	CreatedAt     time.Time         `json:"created_at"`
}

type TestimonialMediaResponse struct {
	Photos        []MediaResponse `json:"photos"`
	Videos        []MediaResponse `json:"videos"`
	MediaFailures []MediaFailure  `json:"media_failures,omitempty"`
}

func ToTestimonialResponse(t *db_models.Testimonial) TestimonialResponse {
	answers := t.CustomAnswers.Data()
	if answers == nil {
		answers = map[string]string{}
	}
	return TestimonialResponse{
		ID:            t.ID,
		BusinessID:    t.BusinessID,
		CampaignID:    t.CampaignID,
		CampaignName:  t.CampaignName(),
		Name:          t.Name,
		Email:         t.Email,
		Rating:        t.Rating,
		Text:          t.Text,
		Status:        string(t.Status),
		PhotoURL:      t.PhotoURL,
		CustomAnswers: answers,
		PhotoCount:    len(t.Photos),
		VideoCount:    len(t.Videos),
		CreatedAt:     t.CreatedAt,
	}
}

func ToTestimonialResponses(ts []db_models.Testimonial) []TestimonialResponse {
	out := make([]TestimonialResponse, 0, len(ts))
	for i := range ts {
		out = append(out, ToTestimonialResponse(&ts[i]))
	}
	return out
}

func PhotoToMediaResponse(p *db_models.TestimonialPhoto) MediaResponse {
	r := MediaResponse{
		ID:            p.ID,
		Kind:          "photo",
		TestimonialID: p.TestimonialID,
		URL:           p.PhotoURL,
		Status:        string(p.Status),
		UploadedAt:    p.UploadedAt,
		ApprovedAt:    p.ApprovedAt,
	}
	if p.Testimonial != nil {
		r.TestimonialName = p.Testimonial.Name
	}
	return r
}

func VideoToMediaResponse(v *db_models.TestimonialVideo) MediaResponse {
	r := MediaResponse{
		ID:            v.ID,
		Kind:          "video",
		TestimonialID: v.TestimonialID,
		URL:           v.VideoURL,
		Status:        string(v.Status),
		UploadedAt:    v.UploadedAt,
		ApprovedAt:    v.ApprovedAt,
	}
	if v.Testimonial != nil {
		r.TestimonialName = v.Testimonial.Name
	}
	return r
}
