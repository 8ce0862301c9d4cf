package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"trustly/internal/models/db_models"
	"trustly/internal/models/response_models"
	"trustly/internal/repositories"
	"trustly/pkg/metrics"
	"trustly/pkg/realtime"
)

type NotificationServiceInterface interface {
	// Stream returns the dashboard notifications of the caller's business until ctx is done.
	Stream(ctx context.Context, userID uuid.UUID) (<-chan response_models.Notification, error)
}

type NotificationService struct {
	businessRepo repositories.BusinessRepository
	broker       realtime.Broker
	logger       *zap.Logger
}

func NewNotificationService(businessRepo repositories.BusinessRepository, broker realtime.Broker, logger *zap.Logger) NotificationServiceInterface {
	return &NotificationService{
		businessRepo: businessRepo,
		broker:       broker,
		logger:       logger.Named("notifications"),
	}
}

// NotificationFor maps a change event to the toast the dashboard shows, honoring the business
// notification settings. ok is false when nothing should be shown.
func NotificationFor(business *db_models.Business, ev realtime.Event) (response_models.Notification, bool) {
	if business == nil || !business.EmailEnabled {
		return response_models.Notification{}, false
	}

	n := response_models.Notification{
		Type:          string(ev.Type),
		TestimonialID: ev.TestimonialID,
		OccurredAt:    ev.OccurredAt,
	}
	switch ev.Type {
	case realtime.EventTestimonialCreated:
		if !business.NotifyNewTestimonial {
			return n, false
		}
		n.Title = fmt.Sprintf("New testimonial from %s", ev.Name)
		n.Message = fmt.Sprintf("%d-star rating", ev.Rating)
		return n, true
	case realtime.EventTestimonialStatusChanged:
		if !business.NotifyOnApproval || ev.Status != string(db_models.StatusApproved) {
			return n, false
		}
		n.Title = "Testimonial approved"
		n.Message = fmt.Sprintf("%s's testimonial is now live", ev.Name)
		return n, true
	default:
		return n, false
	}
}

func (s *NotificationService) Stream(ctx context.Context, userID uuid.UUID) (<-chan response_models.Notification, error) {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}

	events, unsubscribe := s.broker.Subscribe(business.ID)
	out := make(chan response_models.Notification)

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				// settings may change while the stream is open
				current, err := s.businessRepo.FindByID(ctx, business.ID)
				if err != nil {
					s.logger.Warn("reload business settings", zap.String("business_id", business.ID.String()), zap.Error(err))
					continue
				}
				n, show := NotificationFor(current, ev)
				if !show {
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Notifier emails business owners about new testimonials. It consumes the broker for all
// businesses and runs between Start and Stop.
type Notifier struct {
	businessRepo    repositories.BusinessRepository
	testimonialRepo repositories.TestimonialRepository
	broker          realtime.Broker
	mail            IMailService
	logger          *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewNotifier(
	businessRepo repositories.BusinessRepository,
	testimonialRepo repositories.TestimonialRepository,
	broker realtime.Broker,
	mail IMailService,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		businessRepo:    businessRepo,
		testimonialRepo: testimonialRepo,
		broker:          broker,
		mail:            mail,
		logger:          logger.Named("notifier"),
	}
}

func (n *Notifier) Start(context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel

	events, unsubscribe := n.broker.Subscribe(uuid.Nil)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				n.Handle(ctx, ev)
			}
		}
	}()

	n.logger.Info("notifier started")
	return nil
}

func (n *Notifier) Stop(context.Context) error {
	if n.cancel != nil {
		n.cancel()
	}
	n.wg.Wait()
	n.logger.Info("notifier stopped")
	return nil
}

// Handle processes one event. Failures are logged and counted, never retried.
func (n *Notifier) Handle(ctx context.Context, ev realtime.Event) {
	if ev.Type != realtime.EventTestimonialCreated {
		return
	}
	log := n.logger.With(zap.String("business_id", ev.BusinessID.String()), zap.String("testimonial_id", ev.TestimonialID.String()))

	business, err := n.businessRepo.FindByID(ctx, ev.BusinessID)
	if err != nil || business == nil {
		metrics.NotificationsTotal.WithLabelValues(string(ev.Type), "failed").Inc()
		log.Warn("business lookup failed", zap.Error(err))
		return
	}
	if !business.EmailEnabled || !business.NotifyNewTestimonial || business.NotificationEmail == nil || *business.NotificationEmail == "" {
		metrics.NotificationsTotal.WithLabelValues(string(ev.Type), "skipped").Inc()
		return
	}

	email := TestimonialNotificationEmail{
		To:              *business.NotificationEmail,
		BusinessName:    business.BusinessName,
		BrandColor:      business.PrimaryColor(),
		TestimonialName: ev.Name,
		Rating:          ev.Rating,
	}
	if testimonial, err := n.testimonialRepo.FindByID(ctx, ev.TestimonialID); err == nil && testimonial != nil {
		email.Text = testimonial.Text
	}

	if err := n.mail.SendNewTestimonialNotification(ctx, email); err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(ev.Type), "failed").Inc()
		log.Warn("notification email failed", zap.Error(err))
		return
	}
	metrics.NotificationsTotal.WithLabelValues(string(ev.Type), "sent").Inc()
}
