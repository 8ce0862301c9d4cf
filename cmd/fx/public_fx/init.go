package public_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"trustly/internal/repositories"
	"trustly/internal/services"
	"trustly/pkg/realtime"
	"trustly/pkg/storage"
)

var Module = fx.Provide(providePublicFormService)

func providePublicFormService(
	businessRepo repositories.BusinessRepository,
	campaignRepo repositories.CampaignRepository,
	recipientRepo repositories.RecipientRepository,
	testimonialRepo repositories.TestimonialRepository,
	mediaRepo repositories.MediaRepository,
	store storage.ObjectStore,
	broker realtime.Broker,
	forms *services.FormCache,
	log *zap.Logger,
) services.PublicFormServiceInterface {
	return services.NewPublicFormService(businessRepo, campaignRepo, recipientRepo, testimonialRepo, mediaRepo, store, broker, forms, log)
}
