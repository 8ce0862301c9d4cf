package request_models

type UpdateBusinessRequest struct {
	BusinessName string  `json:"business_name" binding:"required,min=2,max=100"`
	BrandColor   *string `json:"brand_color" binding:"omitempty,hexcolor"`
	LogoURL      *string `json:"logo_url" binding:"omitempty,url,max=2048"`
}

type UpdateBrandingRequest struct {
	PrimaryColor   string  `json:"primary_color" binding:"required,hexcolor"`
	SecondaryColor string  `json:"secondary_color" binding:"required,hexcolor"`
	CustomLogoURL  *string `json:"custom_logo_url" binding:"omitempty,max=2048"`
	ShowBranding   bool    `json:"show_branding"`
}

type UpdateEmailSettingsRequest struct {
	NotificationEmail    *string `json:"notification_email" binding:"omitempty,email,max=255"`
	NotifyNewTestimonial bool    `json:"notify_new_testimonial"`
	NotifyOnApproval     bool    `json:"notify_on_approval"`
	EmailEnabled         bool    `json:"email_enabled"`
}

// LogoTarget selects which logo column an upload replaces.
type LogoTarget string

const (
	LogoTargetSettings LogoTarget = "settings"
	LogoTargetBranding LogoTarget = "branding"
)
