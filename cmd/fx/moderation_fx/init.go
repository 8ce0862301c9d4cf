package moderation_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"trustly/internal/repositories"
	"trustly/internal/services"
	"trustly/pkg/realtime"
	"trustly/pkg/storage"
)

var Module = fx.Provide(
	provideTestimonialRepo, provideMediaRepo, provideModerationService,
)

func provideTestimonialRepo(db *gorm.DB) repositories.TestimonialRepository {
	return repositories.NewTestimonialRepository(db)
}

func provideMediaRepo(db *gorm.DB) repositories.MediaRepository {
	return repositories.NewMediaRepository(db)
}

func provideModerationService(
	businessRepo repositories.BusinessRepository,
	testimonialRepo repositories.TestimonialRepository,
	mediaRepo repositories.MediaRepository,
	store storage.ObjectStore,
	broker realtime.Broker,
	log *zap.Logger,
) services.ModerationServiceInterface {
	return services.NewModerationService(businessRepo, testimonialRepo, mediaRepo, store, broker, log)
}
