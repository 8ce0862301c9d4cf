package db_models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

// ParseModerationStatus accepts only the three known states.
func ParseModerationStatus(s string) (ModerationStatus, error) {
	switch st := ModerationStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

type Testimonial struct {
	BaseModel
	BusinessID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	CampaignID    *uuid.UUID `gorm:"type:uuid;index"`
	Name          string     `gorm:"not null"`
	Email         *string
	Rating        int              `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Text          string           `gorm:"type:text;not null"`
	Status        ModerationStatus `gorm:"type:text;not null"`
	PhotoURL      *string
	CustomAnswers datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`

	Campaign *Campaign          `gorm:"foreignKey:CampaignID" json:"-"`
	Photos   []TestimonialPhoto `gorm:"foreignKey:TestimonialID" json:"-"`
	Videos   []TestimonialVideo `gorm:"foreignKey:TestimonialID" json:"-"`
}

// CampaignName is the group-by key used by analytics.
func (t *Testimonial) CampaignName() string {
	if t.Campaign != nil && t.Campaign.Name != "" {
		return t.Campaign.Name
	}
	return "No Campaign"
}

type TestimonialPhoto struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	TestimonialID uuid.UUID        `gorm:"type:uuid;index;not null"`
	PhotoURL      string           `gorm:"not null"`
	Status        ModerationStatus `gorm:"type:text;not null"`
	UploadedAt    time.Time
	ApprovedAt    *time.Time

	Testimonial *Testimonial `gorm:"foreignKey:TestimonialID" json:"-"`
}

type TestimonialVideo struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	TestimonialID uuid.UUID        `gorm:"type:uuid;index;not null"`
	VideoURL      string           `gorm:"not null"`
	Status        ModerationStatus `gorm:"type:text;not null"`
	UploadedAt    time.Time
	ApprovedAt    *time.Time

	Testimonial *Testimonial `gorm:"foreignKey:TestimonialID" json:"-"`
}

// ApprovedAtFor returns the approved_at value matching status: now when approved, nil otherwise.
func ApprovedAtFor(status ModerationStatus, now time.Time) *time.Time {
	if status == StatusApproved {
		return &now
	}
	return nil
}

func (p *TestimonialPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.UploadedAt.IsZero() {
		p.UploadedAt = time.Now().UTC()
	}
	return nil
}

func (v *TestimonialVideo) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.UploadedAt.IsZero() {
		v.UploadedAt = time.Now().UTC()
	}
	return nil
}
