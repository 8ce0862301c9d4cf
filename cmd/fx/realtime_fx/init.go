package realtime_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"trustly/internal/repositories"
	"trustly/internal/services"
	"trustly/pkg/config"
	"trustly/pkg/realtime"
)

var Module = fx.Options(
	fx.Provide(provideBroker, provideNotifier, provideNotificationService),
	fx.Invoke(runNotifier),
)

func provideBroker(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *zap.Logger) (realtime.Broker, error) {
	var broker realtime.Broker
	switch cfg.RealtimeDriver {
	case "memory":
		broker = realtime.NewMemoryBroker(log.Named("realtime"))
	case "postgres":
		pg, err := realtime.NewPostgresBroker(cfg.PostgresURL, db, log.Named("realtime"))
		if err != nil {
			return nil, err
		}
		broker = pg
	default:
		return nil, fmt.Errorf("unknown REALTIME_DRIVER %q", cfg.RealtimeDriver)
	}

	lc.Append(fx.Hook{OnStop: func(context.Context) error { return broker.Close() }})
	return broker, nil
}

func provideNotifier(
	businessRepo repositories.BusinessRepository,
	testimonialRepo repositories.TestimonialRepository,
	broker realtime.Broker,
	mail services.IMailService,
	log *zap.Logger,
) *services.Notifier {
	return services.NewNotifier(businessRepo, testimonialRepo, broker, mail, log)
}

func provideNotificationService(businessRepo repositories.BusinessRepository, broker realtime.Broker, log *zap.Logger) services.NotificationServiceInterface {
	return services.NewNotificationService(businessRepo, broker, log)
}

func runNotifier(lc fx.Lifecycle, notifier *services.Notifier) {
	lc.Append(fx.Hook{
		OnStart: notifier.Start,
		OnStop:  notifier.Stop,
	})
}
