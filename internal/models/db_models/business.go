package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DefaultBusinessName = "My Business"
	DefaultBrandColor   = "#14b8a6"
)

type BrandColors struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
}

type Business struct {
	BaseModel
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	BusinessName string    `gorm:"not null"`
	BrandColor   *string
	LogoURL      *string

	CustomColors  datatypes.JSONType[BrandColors] `gorm:"type:jsonb"`
	CustomLogoURL *string
	ShowBranding  bool

	NotificationEmail    *string
	NotifyNewTestimonial bool
	NotifyOnApproval     bool
	EmailEnabled         bool
}

// NewBusiness returns a business with the column defaults applied.
func NewBusiness(userID uuid.UUID, name string) *Business {
	if name == "" {
		name = DefaultBusinessName
	}
	return &Business{
		UserID:               userID,
		BusinessName:         name,
		ShowBranding:         true,
		NotifyNewTestimonial: true,
		EmailEnabled:         true,
	}
}

func (b *Business) OwnedBy(userID uuid.UUID) bool {
	return b != nil && b.UserID == userID
}

// PrimaryColor resolves the color used in emails and public forms.
func (b *Business) PrimaryColor() string {
	if c := b.CustomColors.Data().Primary; c != "" {
		return c
	}
	if b.BrandColor != nil && *b.BrandColor != "" {
		return *b.BrandColor
	}
	return DefaultBrandColor
}

// DisplayLogoURL prefers the branding logo over the general settings logo.
func (b *Business) DisplayLogoURL() *string {
	if b.CustomLogoURL != nil && *b.CustomLogoURL != "" {
		return b.CustomLogoURL
	}
	return b.LogoURL
}
