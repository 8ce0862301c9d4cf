package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CustomQuestion struct {
	Question string `json:"question" validate:"required,max=500"`
	Required bool   `json:"required"`
}

type Campaign struct {
	BaseModel
	BusinessID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Name            string    `gorm:"not null"`
	Description     *string
	WelcomeVideoURL *string
	VideoAutoplay   bool

	CustomQuestions datatypes.JSONSlice[CustomQuestion] `gorm:"type:jsonb"`
	AllowVideo      bool
	AllowPhoto      bool
	AllowText       bool
	AllowRating     bool

	UniqueSlug string         `gorm:"uniqueIndex;not null"`
	FormConfig datatypes.JSON `gorm:"type:jsonb"`

	TotalSent      int
	TotalSubmitted int
	UpdatedAt      time.Time
}

// NewCampaign applies the column defaults: every media type allowed and autoplay on.
func NewCampaign(businessID uuid.UUID, name string) *Campaign {
	return &Campaign{
		BusinessID:      businessID,
		Name:            name,
		VideoAutoplay:   true,
		CustomQuestions: datatypes.JSONSlice[CustomQuestion]{},
		AllowVideo:      true,
		AllowPhoto:      true,
		AllowText:       true,
		AllowRating:     true,
	}
}

type RecipientStatus string

const (
	RecipientPending   RecipientStatus = "pending"
	RecipientSent      RecipientStatus = "sent"
	RecipientSubmitted RecipientStatus = "submitted"
)

type CampaignRecipient struct {
	BaseModel
	CampaignID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	CustomerName  string          `gorm:"not null"`
	CustomerEmail string          `gorm:"not null"`
	UniqueToken   string          `gorm:"uniqueIndex;not null"`
	Status        RecipientStatus `gorm:"type:text;not null"`
	SentAt        *time.Time
	SubmittedAt   *time.Time
}
