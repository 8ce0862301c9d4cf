package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"trustly/internal/models/db_models"
	"trustly/pkg/realtime"
)

func createdEvent(businessID uuid.UUID) realtime.Event {
	return realtime.Event{
		Type:          realtime.EventTestimonialCreated,
		BusinessID:    businessID,
		TestimonialID: uuid.New(),
		Name:          "Jane Customer",
		Rating:        5,
		OccurredAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNotificationFor(t *testing.T) {
	business := db_models.NewBusiness(uuid.New(), "Acme Coffee")

	n, ok := NotificationFor(business, createdEvent(business.ID))
	require.True(t, ok)
	assert.Equal(t, "New testimonial from Jane Customer", n.Title)
	assert.Equal(t, "5-star rating", n.Message)

	approved := createdEvent(business.ID)
	approved.Type, approved.Status = realtime.EventTestimonialStatusChanged, "approved"
	_, ok = NotificationFor(business, approved)
	assert.False(t, ok, "approval toasts are off by default")

	business.NotifyOnApproval = true
	n, ok = NotificationFor(business, approved)
	require.True(t, ok)
	assert.Equal(t, "Jane Customer's testimonial is now live", n.Message)

	rejected := approved
	rejected.Status = "rejected"
	_, ok = NotificationFor(business, rejected)
	assert.False(t, ok)

	business.EmailEnabled = false
	_, ok = NotificationFor(business, createdEvent(business.ID))
	assert.False(t, ok)
}

func TestNotifierEmailsOwner(t *testing.T) {
	business := db_models.NewBusiness(uuid.New(), "Acme Coffee")
	business.NotificationEmail = strPtr("owner@acme.test")
	businesses := newFakeBusinessRepo(business)

	ev := createdEvent(business.ID)
	testimonials := newFakeTestimonialRepo(nil, &db_models.Testimonial{
		BaseModel:  db_models.BaseModel{ID: ev.TestimonialID},
		BusinessID: business.ID,
		Name:       "Jane Customer",
		Rating:     5,
		Text:       "Lovely",
	})
	mailer := &fakeMailer{failFor: map[string]bool{}}
	notifier := NewNotifier(businesses, testimonials, &fakeBroker{}, mailer, zap.NewNop())

	notifier.Handle(context.Background(), ev)

	require.Len(t, mailer.notifications, 1)
	sent := mailer.notifications[0]
	assert.Equal(t, "owner@acme.test", sent.To)
	assert.Equal(t, "Acme Coffee", sent.BusinessName)
	assert.Equal(t, "Lovely", sent.Text)
	assert.Equal(t, 5, sent.Rating)
}

func TestNotifierSkipsWhenDisabled(t *testing.T) {
	business := db_models.NewBusiness(uuid.New(), "Acme Coffee")
	business.NotificationEmail = strPtr("owner@acme.test")
	business.NotifyNewTestimonial = false
	mailer := &fakeMailer{failFor: map[string]bool{}}
	notifier := NewNotifier(newFakeBusinessRepo(business), newFakeTestimonialRepo(nil), &fakeBroker{}, mailer, zap.NewNop())

	notifier.Handle(context.Background(), createdEvent(business.ID))

	status := createdEvent(business.ID)
	status.Type = realtime.EventTestimonialStatusChanged
	notifier.Handle(context.Background(), status)

	assert.Empty(t, mailer.notifications)
}

func TestNotifierWithoutAddressSendsNothing(t *testing.T) {
	business := db_models.NewBusiness(uuid.New(), "Acme Coffee")
	mailer := &fakeMailer{failFor: map[string]bool{}}
	notifier := NewNotifier(newFakeBusinessRepo(business), newFakeTestimonialRepo(nil), &fakeBroker{}, mailer, zap.NewNop())

	notifier.Handle(context.Background(), createdEvent(business.ID))
	assert.Empty(t, mailer.notifications)
}
