package analytics_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"trustly/internal/repositories"
	"trustly/internal/services"
)

var Module = fx.Provide(provideAnalyticsService)

func provideAnalyticsService(businessRepo repositories.BusinessRepository, testimonialRepo repositories.TestimonialRepository, log *zap.Logger) services.AnalyticsServiceInterface {
	return services.NewAnalyticsService(businessRepo, testimonialRepo, log)
}
