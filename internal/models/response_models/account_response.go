package response_models

import (
	"time"

	"github.com/google/uuid"
	"trustly/internal/models/db_models"
)

type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token    string            `json:"token"`
	Account  *AccountResponse  `json:"account,omitempty"`
	Business *BusinessResponse `json:"business,omitempty"`
}

type BusinessResponse struct {
	ID                   uuid.UUID             `json:"id"`
	UserID               uuid.UUID             `json:"user_id"`
	BusinessName         string                `json:"business_name"`
	BrandColor           *string               `json:"brand_color"`
	LogoURL              *string               `json:"logo_url"`
	CustomColors         db_models.BrandColors `json:"custom_colors"`
	CustomLogoURL        *string               `json:"custom_logo_url"`
	ShowBranding         bool                  `json:"show_branding"`
	NotificationEmail    *string               `json:"notification_email"`
	NotifyNewTestimonial bool                  `json:"notify_new_testimonial"`
	NotifyOnApproval     bool                  `json:"notify_on_approval"`
	EmailEnabled         bool                  `json:"email_enabled"`
	CreatedAt            time.Time             `json:"created_at"`
}

type EmailSettingsResponse struct {
	NotificationEmail    *string `json:"notification_email"`
	NotifyNewTestimonial bool    `json:"notify_new_testimonial"`
	NotifyOnApproval     bool    `json:"notify_on_approval"`
	EmailEnabled         bool    `json:"email_enabled"`
}

type LogoUploadResponse struct {
	URL string `json:"url"`
}

func ToAccountResponse(a *db_models.Account) *AccountResponse {
	if a == nil {
		return nil
	}
	return &AccountResponse{ID: a.ID, Name: a.Name, Email: a.Email, CreatedAt: a.CreatedAt}
}

func ToBusinessResponse(b *db_models.Business) *BusinessResponse {
	if b == nil {
		return nil
	}
	return &BusinessResponse{
		ID:                   b.ID,
		UserID:               b.UserID,
		BusinessName:         b.BusinessName,
		BrandColor:           b.BrandColor,
		LogoURL:              b.LogoURL,
		CustomColors:         b.CustomColors.Data(),
		CustomLogoURL:        b.CustomLogoURL,
		ShowBranding:         b.ShowBranding,
		NotificationEmail:    b.NotificationEmail,
		NotifyNewTestimonial: b.NotifyNewTestimonial,
		NotifyOnApproval:     b.NotifyOnApproval,
		EmailEnabled:         b.EmailEnabled,
		CreatedAt:            b.CreatedAt,
	}
}

func ToEmailSettingsResponse(b *db_models.Business) EmailSettingsResponse {
	return EmailSettingsResponse{
		NotificationEmail:    b.NotificationEmail,
		NotifyNewTestimonial: b.NotifyNewTestimonial,
		NotifyOnApproval:     b.NotifyOnApproval,
		EmailEnabled:         b.EmailEnabled,
	}
}
