package response_models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one dashboard toast pushed over the notification stream.
type Notification struct {
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	TestimonialID uuid.UUID `json:"testimonial_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
