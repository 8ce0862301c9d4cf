// Package realtime fans testimonial change events out to dashboard subscribers.
package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTestimonialCreated       EventType = "testimonial.created"
	EventTestimonialStatusChanged EventType = "testimonial.status_changed"
)

type Event struct {
	Type          EventType `json:"type"`
	BusinessID    uuid.UUID `json:"business_id"`
	TestimonialID uuid.UUID `json:"testimonial_id"`
	Name          string    `json:"name"`
	Rating        int       `json:"rating"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Broker delivers events at most once and never blocks publishers on slow subscribers.
type Broker interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe returns events for businessID, or for every business when businessID is uuid.Nil.
	// The returned func unsubscribes and closes the channel.
	Subscribe(businessID uuid.UUID) (<-chan Event, func())
	Close() error
}
